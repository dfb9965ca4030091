package log

import (
	"log/slog"
	"strconv"
	"strings"
)

// String returns the lowercase name of a defined level. Levels between the
// defined ones are written relative to the nearest lower level, as in
// "info+2".
func (l Level) String() string {
	named := []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

	for _, n := range named {
		if l < n {
			continue
		}

		name := levelName(n)
		if l == n {
			return name
		}

		return name + "+" + strconv.Itoa(int(l-n))
	}

	return levelName(LevelTrace) + strconv.Itoa(int(l-LevelTrace))
}

func levelName(l Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return strings.ToLower(slog.Level(l).String())
	}
}

// String returns the name accepted by [ParseFormat].
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}
