package timefmt

import "testing"

func TestClock(t *testing.T) {
	tests := map[int64]string{
		0:            "00:00:00",
		59:           "00:00:59",
		3661:         "01:01:01",
		25*3600 + 61: "25:01:01",
		-4:           "00:00:00",
	}
	for secs, want := range tests {
		if got := Clock(secs); got != want {
			t.Errorf("Clock(%d) = %q, want %q", secs, got, want)
		}
	}
}

func TestHuman(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0s"},
		{30, "30s"},
		{45 * 60, "45m"},
		{45*60 + 10, "45m"},
		{3600, "1h"},
		{2*3600 + 30*60, "2h 30m"},
		{-5, "0s"},
	}
	for _, tt := range tests {
		if got := Human(tt.secs); got != tt.want {
			t.Errorf("Human(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1:02:03", 3723, false},
		{"5:30", 330, false},
		{" 00:00:00 ", 0, false},
		{"100:00:00", 360000, false},
		{"1:60", 0, true},
		{"1:00:60", 0, true},
		{"", 0, true},
		{"   ", 0, true},
		{"90", 0, true},
		{"1:2:3:4", 0, true},
		{"a:10", 0, true},
		{"-1:10", 0, true},
		{"1::10", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
