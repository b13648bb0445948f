// Package date provides a proleptic Gregorian calendar date with no clock or
// time zone attached.
//
// Years are int64 and may be zero or negative (astronomical numbering), so
// arithmetic with very large offsets produces a far date instead of wrapping
// around. Offsets passed to the Add methods are clamped to ±MaxOffset.
package date

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fortio.org/safecast"
)

// MaxOffset bounds every offset accepted by the arithmetic methods. Larger
// magnitudes are clamped, which keeps all intermediate values well inside
// int64.
const MaxOffset int64 = 1_000_000_000_000

// maxYear bounds the year of any Date.
const maxYear int64 = 1_000_000_000_000_000

const (
	daysPer400Years = 146097
	// days from 0000-03-01 to 1970-01-01
	unixEpochShift = 719468
)

// ErrSyntax is returned by UnmarshalText for anything but YYYY-MM-DD.
var ErrSyntax = errors.New("date: expected YYYY-MM-DD")

// Date is a calendar day. The zero value is not a valid date; build dates
// with New, Of or FromTime.
type Date struct {
	year  int64
	month time.Month
	day   int
}

// New returns the date for year, month and day, normalizing out of range
// values the way time.Date does: October 32 becomes November 1.
func New(year int64, month time.Month, day int) Date {
	m := int64(month) - 1
	year = clampYear(year + floorDiv(m, 12))
	month = time.Month(floorMod(m, 12) + 1)
	first := Date{year: year, month: month, day: 1}
	return first.AddDays(int64(day) - 1)
}

// Of returns the date for year, month and day or an error if the date does
// not exist in the calendar.
func Of(year int64, month time.Month, day int) (Date, error) {
	if !IsValid(year, month, day) {
		return Date{}, fmt.Errorf("date: %d-%02d-%02d does not exist", year, int(month), day)
	}
	return Date{year: year, month: month, day: day}, nil
}

// FromTime returns the calendar date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: int64(y), month: m, day: d}
}

// IsValid reports whether year, month and day name an existing date.
func IsValid(year int64, month time.Month, day int) bool {
	if year > maxYear || year < -maxYear {
		return false
	}
	if month < time.January || month > time.December {
		return false
	}
	return day >= 1 && day <= DaysIn(month, year)
}

// IsLeap reports whether year is a leap year.
func IsLeap(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month of year.
func DaysIn(month time.Month, year int64) int {
	switch month {
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

func (d Date) Year() int64 { return d.year }

func (d Date) Month() time.Month { return d.month }

func (d Date) Day() int { return d.day }

// Days returns the number of days since 1970-01-01.
func (d Date) Days() int64 {
	y := d.year
	m := int64(d.month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + int64(d.day) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*daysPer400Years + doe - unixEpochShift
}

// FromDays is the inverse of Date.Days.
func FromDays(days int64) Date {
	z := days + unixEpochShift
	era := floorDiv(z, daysPer400Years)
	doe := z - era*daysPer400Years
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if mp >= 10 {
		month = mp - 9
	}
	if month <= 2 {
		y++
	}
	dd, _ := safecast.Conv[int](day)
	mm, _ := safecast.Conv[int](month)
	return Date{year: y, month: time.Month(mm), day: dd}
}

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int64) Date {
	return FromDays(d.Days() + clampOffset(n))
}

// AddMonths moves the date by n months. The month index rolls over into the
// year; a day past the end of the target month is clamped to its last day.
func (d Date) AddMonths(n int64) Date {
	n = clampOffset(n)
	total := d.year*12 + int64(d.month) - 1 + n
	year := clampYear(floorDiv(total, 12))
	month := time.Month(floorMod(total, 12) + 1)
	return Date{year: year, month: month, day: min(d.day, DaysIn(month, year))}
}

// AddYears moves the date by n years, clamping February 29 to February 28
// in common years.
func (d Date) AddYears(n int64) Date {
	year := clampYear(d.year + clampOffset(n))
	return Date{year: year, month: d.month, day: min(d.day, DaysIn(d.month, year))}
}

// Advance applies years first, then months, then days. Each of the year and
// month steps clamps the day to the end of the month it lands in before the
// day offset is applied.
func (d Date) Advance(days, months, years int64) Date {
	return d.AddYears(years).AddMonths(months).AddDays(days)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) (time.Time, error) {
	year, err := safecast.Conv[int](d.year)
	if err != nil {
		return time.Time{}, fmt.Errorf("date: year %d out of range: %w", d.year, err)
	}
	return time.Date(year, d.month, d.day, 0, 0, 0, 0, loc), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.year, int(d.month), d.day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for the String format.
func (d *Date) UnmarshalText(b []byte) error {
	s := string(b)
	sign := int64(1)
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) < 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return ErrSyntax
	}
	year, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrSyntax
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return ErrSyntax
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return ErrSyntax
	}
	parsed, err := Of(sign*year, time.Month(month), day)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func clampOffset(n int64) int64 {
	return max(-MaxOffset, min(MaxOffset, n))
}

func clampYear(y int64) int64 {
	return max(-maxYear, min(maxYear, y))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
