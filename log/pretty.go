package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// levelColor returns the color used for the level of a record.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// prettyState is shared by both pretty handlers: the options, the writer and
// its lock, and the attributes and groups added with WithAttrs and WithGroup.
type prettyState struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func (s prettyState) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if s.opts.Level != nil {
		threshold = s.opts.Level.Level()
	}

	return level >= threshold
}

// withAttrs returns a copy of s holding attrs, qualified by the open groups.
func (s prettyState) withAttrs(attrs []slog.Attr) prettyState {
	out := s
	out.attrs = append(s.attrs[:len(s.attrs):len(s.attrs)], s.qualify(attrs)...)

	return out
}

func (s prettyState) withGroup(name string) prettyState {
	if name == "" {
		return s
	}

	out := s
	out.groups = append(s.groups[:len(s.groups):len(s.groups)], name)

	return out
}

// qualify nests attrs under the open groups.
func (s prettyState) qualify(attrs []slog.Attr) []slog.Attr {
	for i := len(s.groups) - 1; i >= 0; i-- {
		args := make([]any, len(attrs))
		for j, a := range attrs {
			args[j] = a
		}

		attrs = []slog.Attr{slog.Group(s.groups[i], args...)}
	}

	return attrs
}

// collect returns the time, level, source, and message attributes of r after
// ReplaceAttr, followed by the handler and record attributes.
func (s prettyState) collect(r slog.Record) (header, attrs []slog.Attr) {
	if !r.Time.IsZero() {
		header = append(header, slog.Time(slog.TimeKey, r.Time))
	}

	header = append(header, slog.Any(slog.LevelKey, r.Level))

	if s.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			header = append(header, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	header = append(header, slog.String(slog.MessageKey, r.Message))

	kept := header[:0]
	for _, a := range header {
		if s.opts.ReplaceAttr != nil {
			a = s.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			kept = append(kept, a)
		}
	}

	var record []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		record = append(record, a)

		return true
	})

	attrs = append(attrs, s.attrs...)
	attrs = append(attrs, s.qualify(record)...)

	return kept, attrs
}

func (s prettyState) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes records as colorized, unquoted key=value pairs.
// Group attributes, including those produced by [slog.LogValuer] values, are
// flattened to dotted keys.
type prettyTextHandler struct{ prettyState }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyState{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	header, attrs := h.collect(r)

	for _, a := range header {
		if a.Key == slog.LevelKey {
			writeKey(buf, a.Key)
			buf.WriteString(levelColor(r.Level))
			buf.WriteString(a.Value.Resolve().String())
			buf.WriteString(colorReset)

			continue
		}

		h.writeAttr(buf, "", a)
	}

	for _, a := range attrs {
		h.writeAttr(buf, "", a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			h.writeAttr(buf, key, g)
		}

		return
	}

	writeKey(buf, key)
	writeValue(buf, a.Value)
}

// writeValue writes a resolved, non-group value in the color of its kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().Format(time.RFC3339)

	default:
		if err, ok := v.Any().(error); ok {
			color, text = colorRed, err.Error()
		} else {
			text = v.String()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

// prettyJSONHandler writes records as indented, colorized JSON-like objects.
// Group attributes become nested objects.
type prettyJSONHandler struct{ prettyState }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyState{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	header, attrs := h.collect(r)

	writeObject(buf, append(header, attrs...), 1)

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func writeObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	buf.WriteString("{\n")

	first := true

	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}

		if !first {
			buf.WriteString(",\n")
		}

		first = false

		indent(buf, depth)
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		if a.Value.Kind() == slog.KindGroup {
			writeObject(buf, a.Value.Group(), depth+1)

			continue
		}

		writeJSONValue(buf, a.Value)
	}

	buf.WriteByte('\n')
	indent(buf, depth-1)
	buf.WriteByte('}')
}

func indent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func writeJSONValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		writeValue(buf, v)

	case slog.KindAny:
		if v.Any() == nil {
			buf.WriteString(colorGray)
			buf.WriteString("null")
			buf.WriteString(colorReset)

			return
		}

		fallthrough

	default:
		text := v.String()
		if err, ok := v.Any().(error); ok && v.Kind() == slog.KindAny {
			text = err.Error()
		} else if v.Kind() == slog.KindTime {
			text = v.Time().Format(time.RFC3339)
		}

		buf.WriteString(colorCyan)
		buf.WriteString(strconv.Quote(text))
		buf.WriteString(colorReset)
	}
}
