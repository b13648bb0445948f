// Package preview renders templates for the live preview: it supplies today
// when no base date is given, replaces blank templates with a fallback
// message and counts the characters of the template.
package preview

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/jonboulle/clockwork"

	"github.com/LingHeChen/datevar/date"
	"github.com/LingHeChen/datevar/eval"
	"github.com/LingHeChen/datevar/parser"
)

const (
	// DefaultFallbackMessage is shown for blank templates
	DefaultFallbackMessage = "Your rendered text will appear here."
	// DefaultMaxLength is the template length limit of the preview form
	DefaultMaxLength = 500
	// NoLimit disables the length limit
	NoLimit = -1
)

// Counter describes the template length against the form limit
type Counter struct {
	Length    int  `json:"length"`
	MaxLength int  `json:"max_length"`
	Over      bool `json:"over"`
}

// Indicator returns "N" without a limit and "N/Max" otherwise
func (c Counter) Indicator() string {
	if c.MaxLength == NoLimit {
		return strconv.Itoa(c.Length)
	}
	return strconv.Itoa(c.Length) + "/" + strconv.Itoa(c.MaxLength)
}

// Count measures s in UTF-16 code units, the unit browsers use for maxlength
func Count(s string, maxLength int) Counter {
	n := 0
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return Counter{
		Length:    n,
		MaxLength: maxLength,
		Over:      maxLength != NoLimit && n > maxLength,
	}
}

// Result is one rendered preview
type Result struct {
	Text     string    `json:"text"`
	Date     date.Date `json:"date"`
	Today    bool      `json:"today"`    // Date came from the clock
	Fallback bool      `json:"fallback"` // Text is the fallback message
	Counter  Counter   `json:"counter"`
}

// Service renders previews
type Service struct {
	renderer  *eval.Renderer
	clock     clockwork.Clock
	location  *time.Location
	fallback  string
	maxLength int
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock that supplies today
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocation sets the time zone in which today is taken
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithFallbackMessage sets the text shown for blank templates
func WithFallbackMessage(msg string) Option {
	return func(s *Service) {
		s.fallback = msg
	}
}

// WithMaxLength sets the template length limit, NoLimit disables it
func WithMaxLength(n int) Option {
	return func(s *Service) {
		s.maxLength = n
	}
}

// WithRenderer sets the renderer
func WithRenderer(r *eval.Renderer) Option {
	return func(s *Service) {
		s.renderer = r
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new Service
func NewService(opts ...Option) *Service {
	s := &Service{
		clock:     clockwork.NewRealClock(),
		location:  time.Local,
		fallback:  DefaultFallbackMessage,
		maxLength: DefaultMaxLength,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = eval.NewRenderer(eval.WithLogger(s.logger))
	}
	return s
}

// MaxLength returns the configured template length limit
func (s *Service) MaxLength() int {
	return s.maxLength
}

// Today returns the current date in the service's time zone
func (s *Service) Today() date.Date {
	return date.FromTime(s.clock.Now().In(s.location))
}

// Render renders template against base, or against today when base is nil
func (s *Service) Render(template string, base *date.Date) Result {
	res := Result{Counter: Count(template, s.maxLength)}
	if base != nil {
		res.Date = *base
	} else {
		res.Date = s.Today()
		res.Today = true
	}

	if strings.TrimSpace(template) == "" {
		res.Text = s.fallback
		res.Fallback = true
		return res
	}
	res.Text = s.renderer.RenderString(template, res.Date)
	return res
}

// RenderParams renders form input: an unparsable date param falls back to
// today instead of failing.
func (s *Service) RenderParams(content, dateParam string) Result {
	var base *date.Date
	if d, ok := parser.DateFromParam(dateParam); ok {
		base = &d
	} else if strings.TrimSpace(dateParam) != "" {
		s.logger.Debug("ignoring invalid date parameter", "date", dateParam)
	}
	return s.Render(content, base)
}
