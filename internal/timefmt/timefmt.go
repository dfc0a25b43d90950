// Package timefmt formats and parses task durations for the terminal UI and
// the CLI.
package timefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errClockFormat = errors.New("use HH:MM:SS or MM:SS")

// Clock renders secs as HH:MM:SS. Hours are not capped at 24 and negative
// values render as zero.
func Clock(secs int64) string {
	secs = max(secs, 0)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// Human renders secs as "2h 30m", "1h", "45m" or "30s".
func Human(secs int64) string {
	secs = max(secs, 0)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// ParseClock reads "HH:MM:SS" or "MM:SS" into seconds. Minutes and seconds
// must be below 60; hours are unbounded.
func ParseClock(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("time is required")
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, errClockFormat
	}
	nums := make([]int64, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return 0, errClockFormat
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, errClockFormat
		}
		nums[i] = n
	}

	var h, m, sec int64
	if len(nums) == 3 {
		h, m, sec = nums[0], nums[1], nums[2]
	} else {
		m, sec = nums[0], nums[1]
	}
	if m >= 60 || sec >= 60 {
		return 0, errors.New("minutes and seconds must be below 60")
	}
	return h*3600 + m*60 + sec, nil
}
