package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of each part of a pretty log message.
type palette struct {
	key    lipgloss.Style
	text   lipgloss.Style
	number lipgloss.Style
	yes    lipgloss.Style
	no     lipgloss.Style
	time   lipgloss.Style
	levels map[slog.Level]lipgloss.Style
}

func makePalette(r *lipgloss.Renderer) palette {
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		time:   fg("4"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.Level(LevelDebug): fg("4"),
			slog.Level(LevelInfo):  fg("2").Bold(true),
			slog.Level(LevelWarn):  fg("3").Bold(true),
			slog.Level(LevelError): fg("1").Bold(true),
		},
	}
}

// level returns the style of the nearest named level at or below l.
func (p palette) level(l slog.Level) lipgloss.Style {
	best, found := slog.Level(LevelTrace), false

	for k := range p.levels {
		if k <= l && (!found || k > best) {
			best, found = k, true
		}
	}

	return p.levels[best]
}

// prettyHandler writes colorized messages for terminals, either as one
// key=value line per message (FormatText) or as an indented block
// (FormatJSON).
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(w io.Writer, format Format, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		style:  makePalette(lipgloss.NewRenderer(w)),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append(out.attrs[:len(out.attrs):len(out.attrs)], h.qualify(attrs)...)

	return &out
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	out := *h
	out.prefix += name + "."

	return &out
}

// qualify prefixes the keys of attrs with the open groups.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := []slog.Attr{
		slog.Time(slog.TimeKey, r.Time),
		slog.Any(slog.LevelKey, r.Level),
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin = append(builtin,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	builtin = append(builtin, slog.String(slog.MessageKey, r.Message))

	for _, a := range builtin {
		if a.Key == slog.TimeKey && r.Time.IsZero() {
			continue
		}

		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key == "" {
			continue
		}

		fields = append(fields, a)
	}

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify([]slog.Attr{a})...)

		return true
	})

	var buf bytes.Buffer

	level := h.style.level(r.Level)

	switch h.format {
	case FormatJSON:
		h.writeBlock(&buf, fields, level)

	default:
		h.writeLine(&buf, fields, level)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr, level lipgloss.Style) {
	for i, a := range flatten("", fields) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a, level))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeBlock(buf *bytes.Buffer, fields []slog.Attr, level lipgloss.Style) {
	buf.WriteString("{\n")

	for _, a := range flatten("", fields) {
		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(a, level))
		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

// value renders the value of a styled by its kind. The level attribute
// takes the given level style.
func (h *prettyHandler) value(a slog.Attr, level lipgloss.Style) string {
	v := a.Value

	if a.Key == slog.LevelKey {
		return level.Render(v.String())
	}

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return h.style.number.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindTime:
		return h.style.time.Render(v.Time().Format("15:04:05.000"))

	default:
		s := v.String()
		if strings.ContainsAny(s, " \t\n=\"") {
			s = strconv.Quote(s)
		}

		return h.style.text.Render(s)
	}
}

// flatten expands group attributes into dotted keys and resolves
// [slog.LogValuer] values.
func flatten(prefix string, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() != slog.KindGroup {
			if a.Key != "" || !a.Value.Equal(slog.Value{}) {
				out = append(out, slog.Attr{Key: prefix + a.Key, Value: a.Value})
			}

			continue
		}

		group := a.Value.Group()

		if a.Key == "" {
			out = append(out, flatten(prefix, group)...)
		} else {
			out = append(out, flatten(prefix+a.Key+".", group)...)
		}
	}

	return out
}
