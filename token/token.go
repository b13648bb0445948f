// Package token defines the tokens produced by the date placeholder lexer
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter opens and closes a placeholder
const Delimiter = '#'

// Field identifies the date component a placeholder refers to
type Field int

const (
	Day Field = iota
	Month
	Year
)

var fieldNames = map[Field]string{
	Day:   "day",
	Month: "month",
	Year:  "year",
}

// fieldLetters is indexed by Field
var fieldLetters = [...]byte{Day: 'd', Month: 'm', Year: 'y'}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Letter returns the placeholder letter of the field
func (f Field) Letter() byte {
	if f < 0 || int(f) >= len(fieldLetters) {
		return 0
	}
	return fieldLetters[f]
}

// LookupField maps a placeholder letter to its field
func LookupField(letter byte) (Field, bool) {
	for i, l := range fieldLetters {
		if l == letter {
			return Field(i), true
		}
	}
	return 0, false
}

// ---------------------------------------------------------
// Top-level tokens
// ---------------------------------------------------------

// Token is either a Text run or a Segment
type Token interface {
	fmt.Stringer
	tokenNode()
}

// Leaf is either a Text run or a DateField; leaves make up segments
type Leaf interface {
	fmt.Stringer
	leafNode()
}

// Text: literal characters, rendered verbatim
type Text struct {
	Content string
}

func (t Text) tokenNode() {}
func (t Text) leafNode()  {}

func (t Text) String() string {
	return fmt.Sprintf("[text: '%s']", t.Content)
}

// DateField: #d#, #m-1#, #y+10#
type DateField struct {
	Field  Field
	Offset int64
}

func (d DateField) leafNode() {}

func (d DateField) String() string {
	return fmt.Sprintf("[%s: '%s']", d.Field, FormatOffset(d.Offset))
}

// Placeholder returns the canonical source form: #d#, #m-1#, #y+10#
func (d DateField) Placeholder() string {
	offset := ""
	if d.Offset != 0 {
		offset = FormatOffset(d.Offset)
	}
	return string(Delimiter) + string(d.Field.Letter()) + offset + string(Delimiter)
}

// Segment groups the leaves that resolve against one computed date
type Segment struct {
	Leaves []Leaf
}

func (s Segment) tokenNode() {}

func (s Segment) String() string {
	parts := make([]string, len(s.Leaves))
	for i, leaf := range s.Leaves {
		parts[i] = leaf.String()
	}
	return "[date_segment: [" + strings.Join(parts, ", ") + "]]"
}

// Fields returns the date fields of the segment in source order
func (s Segment) Fields() []DateField {
	var fields []DateField
	for _, leaf := range s.Leaves {
		if f, ok := leaf.(DateField); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// ---------------------------------------------------------
// Utility functions
// ---------------------------------------------------------

// FormatOffset renders an offset the way it is written inside a placeholder
func FormatOffset(offset int64) string {
	switch {
	case offset > 0:
		return "+" + strconv.FormatInt(offset, 10)
	case offset < 0:
		return strconv.FormatInt(offset, 10)
	}
	return "0"
}

// Join formats a token stream for debugging
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return strings.Join(parts, ", ")
}
