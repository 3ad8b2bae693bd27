// Package channel exposes host-platform queries to the application layer
// through a named method channel: one channel, method-name dispatch, and a
// well-defined not-implemented response for unknown methods.
package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Name identifies the single channel this backend serves.
const Name = "exact_alarm_permission"

// MethodIsExactAlarmAllowed asks whether the process may schedule
// exact-timing alarms.
const MethodIsExactAlarmAllowed = "isExactAlarmAllowed"

// HandlerFunc computes the result of one channel method.
type HandlerFunc func(ctx context.Context) (any, error)

// Result is the response to a channel invocation. Implemented is false for
// unrecognized methods; that is a normal response, not an error.
type Result struct {
	Implemented bool `json:"implemented"`
	Value       any  `json:"value,omitempty"`
}

// Channel dispatches method calls by name.
type Channel struct {
	name    string
	methods map[string]HandlerFunc
}

// New creates an empty channel with the given name.
func New(name string) *Channel {
	return &Channel{name: name, methods: make(map[string]HandlerFunc)}
}

// Handle registers a method handler.
func (c *Channel) Handle(method string, fn HandlerFunc) {
	c.methods[method] = fn
}

// Invoke runs the named method. Unknown methods yield a not-implemented
// Result and a nil error.
func (c *Channel) Invoke(ctx context.Context, method string) (Result, error) {
	fn, ok := c.methods[method]
	if !ok {
		return Result{Implemented: false}, nil
	}
	value, err := fn(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Implemented: true, Value: value}, nil
}

// Default builds the channel this backend serves, with the exact-alarm
// permission probe registered.
func Default() *Channel {
	c := New(Name)
	c.Handle(MethodIsExactAlarmAllowed, func(ctx context.Context) (any, error) {
		return ExactAlarmAllowed()
	})
	return c
}

type invokeRequest struct {
	Method string `json:"method"`
}

// ServeHTTP answers channel invocations as JSON over POST.
func (c *Channel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := c.Invoke(r.Context(), req.Method)
	if err != nil {
		slog.Error("Channel method failed", "channel", c.name, "method", req.Method, "error", err)
		http.Error(w, "method failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
