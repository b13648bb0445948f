// Package parser parses the base date a template is rendered against.
//
// Accepted forms, whitespace tolerant:
//
//	2024-03-28   2024/03/28   20240328
//	28.3.2024    28. 3. 2024  28-3-2024   28/3/2024
//	28 March 2024   28. Mar 2024   28-Mar-2024   March 28, 2024
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/LingHeChen/datevar/date"
)

// ErrInvalidDate wraps every parse failure
var ErrInvalidDate = errors.New("invalid date")

// ---------------------------------------------------------
// Grammar
// ---------------------------------------------------------

// DateLiteral is the root of the base date grammar
type DateLiteral struct {
	MonthFirst *MonthDayYear `parser:"  @@"`
	DayFirst   *DayMonthYear `parser:"| @@"`
	Numeric    *NumericDate  `parser:"| @@"`
}

// MonthDayYear: March 28, 2024
type MonthDayYear struct {
	Month MonthName `parser:"@Month"`
	Day   string    `parser:"@Int Comma?"`
	Year  string    `parser:"@Int"`
}

// DayMonthYear: 28 March 2024, 28. Mar 2024, 28-Mar-2024
type DayMonthYear struct {
	Day   string    `parser:"@Int Sep?"`
	Month MonthName `parser:"@Month Sep?"`
	Year  string    `parser:"@Int"`
}

// NumericDate: 2024-03-28, 28.3.2024, 20240328
type NumericDate struct {
	First  string `parser:"@Int"`
	Sep    string `parser:"( @Sep"`
	Second string `parser:"  @Int"`
	Sep2   string `parser:"  @Sep"`
	Third  string `parser:"  @Int Sep? )?"`
}

// MonthName captures an English month name or its abbreviation
type MonthName time.Month

var monthPrefixes = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Capture implements participle's Capture interface
func (m *MonthName) Capture(values []string) error {
	v := strings.ToLower(strings.TrimSuffix(values[0], "."))
	month, ok := monthPrefixes[v[:min(3, len(v))]]
	if !ok {
		return fmt.Errorf("unknown month %q", values[0])
	}
	full := strings.ToLower(month.String())
	if len(v) > 3 && !strings.HasPrefix(full, v) && !(month == time.September && v == "sept") {
		return fmt.Errorf("unknown month %q", values[0])
	}
	*m = MonthName(month)
	return nil
}

var dateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Month", Pattern: `(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-zA-Z]*\.?`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Sep", Pattern: `[-./]`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// ---------------------------------------------------------
// Public API
// ---------------------------------------------------------

// Parser parses base dates
type Parser struct {
	parser *participle.Parser[DateLiteral]
}

var defaultParser *Parser
var defaultParserErr error

func init() {
	p, err := participle.Build[DateLiteral](
		participle.Lexer(dateLexer),
		participle.Elide("Whitespace"),
		// a day followed by a separator may still turn out to be numeric
		participle.UseLookahead(3),
	)
	if err != nil {
		defaultParserErr = err
		return
	}
	defaultParser = &Parser{parser: p}
}

// New returns the shared parser instance
func New() (*Parser, error) {
	if defaultParserErr != nil {
		return nil, defaultParserErr
	}
	return defaultParser, nil
}

// Parse parses input into a calendar date
func (p *Parser) Parse(input string) (date.Date, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return date.Date{}, fmt.Errorf("%w: empty input", ErrInvalidDate)
	}
	lit, err := p.parser.ParseString("", input)
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, input, err)
	}
	d, err := lit.Date()
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, input, err)
	}
	return d, nil
}

// ParseDate parses input with the shared parser
func ParseDate(input string) (date.Date, error) {
	p, err := New()
	if err != nil {
		return date.Date{}, err
	}
	return p.Parse(input)
}

// DateFromParam parses a request parameter, failing soft: empty or invalid
// input reports ok=false so the caller can fall back to today.
func DateFromParam(param string) (date.Date, bool) {
	d, err := ParseDate(param)
	if err != nil {
		return date.Date{}, false
	}
	return d, true
}

// ---------------------------------------------------------
// Interpretation
// ---------------------------------------------------------

// Date validates the parsed literal against the calendar
func (l *DateLiteral) Date() (date.Date, error) {
	switch {
	case l.MonthFirst != nil:
		return build(l.MonthFirst.Year, time.Month(l.MonthFirst.Month), l.MonthFirst.Day)
	case l.DayFirst != nil:
		return build(l.DayFirst.Year, time.Month(l.DayFirst.Month), l.DayFirst.Day)
	case l.Numeric != nil:
		return l.Numeric.date()
	}
	return date.Date{}, errors.New("empty date")
}

func (n *NumericDate) date() (date.Date, error) {
	if n.Sep == "" {
		// compact YYYYMMDD
		if len(n.First) != 8 {
			return date.Date{}, fmt.Errorf("expected YYYYMMDD, got %q", n.First)
		}
		m, err := strconv.Atoi(n.First[4:6])
		if err != nil {
			return date.Date{}, err
		}
		return build(n.First[:4], time.Month(m), n.First[6:])
	}
	if n.Sep != n.Sep2 {
		return date.Date{}, fmt.Errorf("mixed separators %q and %q", n.Sep, n.Sep2)
	}

	m, err := strconv.Atoi(n.Second)
	if err != nil {
		return date.Date{}, err
	}
	switch {
	case len(n.First) == 4:
		return build(n.First, time.Month(m), n.Third)
	case len(n.Third) == 4:
		return build(n.Third, time.Month(m), n.First)
	}
	return date.Date{}, fmt.Errorf("no four digit year in %s%s%s%s%s", n.First, n.Sep, n.Second, n.Sep2, n.Third)
}

func build(year string, month time.Month, day string) (date.Date, error) {
	if len(year) != 4 {
		return date.Date{}, fmt.Errorf("expected a four digit year, got %q", year)
	}
	y, err := strconv.ParseInt(year, 10, 64)
	if err != nil {
		return date.Date{}, err
	}
	if len(day) > 2 {
		return date.Date{}, fmt.Errorf("day %q out of range", day)
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return date.Date{}, err
	}
	return date.Of(y, month, d)
}
