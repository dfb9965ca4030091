package log

import (
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelError + 4, "error+4"},
		{LevelTrace - 2, "trace-2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}

	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	if len(names) != 5 || names[0] != "trace" || names[4] != "error" {
		t.Errorf("Levels() = %v", names)
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat(" JSON "); got != FormatJSON {
		t.Errorf("ParseFormat(json) = %v", got)
	}

	if got := ParseFormat("text"); got != FormatText {
		t.Errorf("ParseFormat(text) = %v", got)
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("ParseFormat(xml) = %v, want default", got)
	}

	for name := range Formats() {
		if ParseFormat(name).String() != name {
			t.Errorf("format %q does not round-trip", name)
		}
	}
}

func TestTimeLayout(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2026-10-15T14:30:45Z"},
		{"rfc3339nano", "2026-10-15T14:30:45.123456789Z"},
		{"Kitchen", "2:30PM"},
		{"ms", "Oct 15 14:30:45.123"},
		{"date-time", "2026-10-15 14:30:45"},
		{"2006/01/02", "2026/10/15"},
		{"", ""},
		{"  \t ", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		c := WithTimeLayout(tt.layout)(config{})
		if got := c.formatTime(now); got != tt.want {
			t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestOptionsApply(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelTrace || c.format != FormatJSON || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c.output == nil {
		t.Error("nil writer not replaced")
	}

	d := c.clone(WithLevel(LevelWarn))
	if d.level != LevelWarn || c.level != LevelTrace {
		t.Errorf("clone shares state: %v %v", d.level, c.level)
	}

	if d.mutex == c.mutex {
		t.Error("clone shares mutex")
	}
}
