package channel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Arming CLOCK_REALTIME_ALARM/CLOCK_BOOTTIME_ALARM timers requires
// CAP_WAKE_ALARM in the effective capability set.
const capWakeAlarm = 35

// ExactAlarmAllowed reports whether the current process may schedule
// exact-timing alarms, by checking CAP_WAKE_ALARM in /proc/self/status.
func ExactAlarmAllowed() (bool, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return false, fmt.Errorf("failed to read process status: %w", err)
	}
	defer f.Close()

	caps, err := effectiveCaps(f)
	if err != nil {
		return false, err
	}
	return caps&(1<<capWakeAlarm) != 0, nil
}

// effectiveCaps extracts the CapEff bitmask from /proc/<pid>/status content.
func effectiveCaps(r io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "CapEff:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, "CapEff:"))
		caps, err := strconv.ParseUint(value, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse CapEff %q: %w", value, err)
		}
		return caps, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan process status: %w", err)
	}
	return 0, fmt.Errorf("CapEff not found in process status")
}
