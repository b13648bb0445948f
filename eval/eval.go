// Package eval resolves date segments against a base date and renders text
package eval

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/LingHeChen/datevar/date"
	"github.com/LingHeChen/datevar/lexer"
	"github.com/LingHeChen/datevar/token"
)

// Renderer turns token streams into text. It holds no per-call state and is
// safe for concurrent use.
type Renderer struct {
	logger *slog.Logger
}

// Option is a functional option for Renderer
type Option func(*Renderer)

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer creates a new Renderer
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = NewRenderer()

// Render renders tokens against base with the default renderer
func Render(tokens []token.Token, base date.Date) string {
	return defaultRenderer.Render(tokens, base)
}

// RenderString tokenizes and renders template with the default renderer
func RenderString(template string, base date.Date) string {
	return defaultRenderer.RenderString(template, base)
}

// RenderString tokenizes and renders template
func (r *Renderer) RenderString(template string, base date.Date) string {
	return r.Render(lexer.Tokenize(template), base)
}

// Render concatenates text tokens verbatim and resolved segments
func (r *Renderer) Render(tokens []token.Token, base date.Date) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch t := tok.(type) {
		case token.Text:
			b.WriteString(t.Content)
		case token.Segment:
			leaves := r.resolve(t, base)
			for _, leaf := range leaves {
				if text, ok := leaf.(token.Text); ok {
					b.WriteString(text.Content)
				}
			}
		}
	}
	return b.String()
}

// Resolve returns a new leaf list for seg in which the first date field of
// each kind is replaced by a Text leaf holding the matching component of the
// resolved date. A repeated field adds its offset to the first one and is
// rendered as its offset text. seg itself is not modified.
func Resolve(seg token.Segment, base date.Date) []token.Leaf {
	return defaultRenderer.resolve(seg, base)
}

func (r *Renderer) resolve(seg token.Segment, base date.Date) []token.Leaf {
	// repeated fields sum their offsets; only the first one is substituted
	var offsets [3]int64
	first := [3]int{-1, -1, -1}
	for i, leaf := range seg.Leaves {
		if f, ok := leaf.(token.DateField); ok {
			offsets[f.Field] = addOffset(offsets[f.Field], f.Offset)
			if first[f.Field] < 0 {
				first[f.Field] = i
			}
		}
	}

	resolved := base.Advance(offsets[token.Day], offsets[token.Month], offsets[token.Year])
	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug("resolved date segment",
			"base", base,
			"days", offsets[token.Day],
			"months", offsets[token.Month],
			"years", offsets[token.Year],
			"resolved", resolved,
		)
	}

	out := make([]token.Leaf, len(seg.Leaves))
	for i, leaf := range seg.Leaves {
		f, ok := leaf.(token.DateField)
		if !ok {
			out[i] = leaf
			continue
		}
		if first[f.Field] == i {
			out[i] = token.Text{Content: Component(resolved, f.Field)}
		} else {
			out[i] = token.Text{Content: token.FormatOffset(f.Offset)}
		}
	}
	return out
}

// Component formats one field of d as a plain decimal integer
func Component(d date.Date, field token.Field) string {
	switch field {
	case token.Day:
		return strconv.Itoa(d.Day())
	case token.Month:
		return strconv.Itoa(int(d.Month()))
	case token.Year:
		return strconv.FormatInt(d.Year(), 10)
	}
	return ""
}

// addOffset sums offsets of repeated fields without leaving ±date.MaxOffset
func addOffset(a, b int64) int64 {
	b = max(-date.MaxOffset, min(date.MaxOffset, b))
	return max(-date.MaxOffset, min(date.MaxOffset, a+b))
}
