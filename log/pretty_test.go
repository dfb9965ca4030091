package log

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile("\033\\[[0-9;]*m")

func strip(s string) string { return ansi.ReplaceAllString(s, "") }

type failure struct{ op string }

func (f failure) Error() string { return f.op + " failed" }

func (f failure) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "type error"),
		slog.String("operator", f.op),
	)
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithPretty(true),
		WithTimeLayout("none"), WithLevel(LevelTrace))

	l.With(slog.String("file", "a.ly")).
		Trace("call", slog.Int("depth", 2), slog.Any("error", failure{"+"}))

	got := strip(buf.String())
	want := "level=TRACE msg=call file=a.ly depth=2 " +
		"error.error=type error error.operator=+\n"

	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}

	if !strings.Contains(buf.String(), colorBlue+"TRACE") {
		t.Errorf("trace level not colored: %q", buf.String())
	}
}

func TestPrettyTextGroups(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithPretty(true), WithTimeLayout("none"))
	l.Logger = l.WithGroup("eval")
	l.Info("exec", slog.Bool("ok", true))

	if got := strip(buf.String()); got != "level=INFO msg=exec eval.ok=true\n" {
		t.Errorf("got %q", got)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithPretty(true), WithTimeLayout("none"))
	l.Warn("drop", slog.Any("error", failure{"-"}), slog.Float64("n", 1.5))

	got := strip(buf.String())
	want := `{
  "level": "WARN",
  "msg": "drop",
  "error": {
    "error": "type error",
    "operator": "-"
  },
  "n": 1.5
}
`

	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
