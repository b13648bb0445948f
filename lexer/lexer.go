// Package lexer splits template text into plain text runs and date segments
package lexer

import (
	"strings"

	"github.com/LingHeChen/datevar/date"
	"github.com/LingHeChen/datevar/token"
)

// Delimiter opens and closes a placeholder: #d#, #m-1#, #y+10#
const Delimiter = token.Delimiter

// state of the scanner
type state int

const (
	// scanning: the open buffer holds no date field yet
	scanning state = iota
	// inPlaceholder: positioned on a delimiter, deciding between a placeholder and literal text
	inPlaceholder
	// inSegment: the open buffer holds at least one date field
	inSegment
)

// Lexer tokenizes one template. A Lexer is not reusable and must not be
// shared between goroutines; Tokenize creates a fresh one per call.
type Lexer struct {
	input   string
	pos     int  // current position
	readPos int  // next position
	ch      byte // current char, valid while pos < len(input)

	state  state
	resume state // state to return to after a literal delimiter run

	text   strings.Builder // pending literal text, merged into one leaf
	buffer []token.Leaf
	seen   [3]bool // field types present in buffer
	tokens []token.Token
}

// New creates a new Lexer
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

// Run scans the whole input and returns the token stream
func (l *Lexer) Run() []token.Token {
	for !l.eof() {
		switch l.state {
		case scanning, inSegment:
			if l.ch == Delimiter {
				l.resume = l.state
				l.state = inPlaceholder
				continue
			}
			l.text.WriteString(l.readText())
		case inPlaceholder:
			l.scanPlaceholder()
		}
	}
	l.flush()
	return l.tokens
}

// scanPlaceholder consumes either a complete placeholder or, when the shape
// does not match, a literal run that starts at the delimiter and extends
// through the next delimiter (or to the end of input). Every byte is read
// once: a failed match has only consumed delimiter-free bytes, so the literal
// run simply continues from where the match stopped.
func (l *Lexer) scanPlaceholder() {
	start := l.pos
	l.readChar() // opening delimiter

	field, ok := token.LookupField(l.ch)
	if ok && !l.eof() {
		l.readChar()
		negative := false
		if !l.eof() && (l.ch == '+' || l.ch == '-') {
			negative = l.ch == '-'
			l.readChar()
		}
		offset := l.readOffset()
		if !l.eof() && l.ch == Delimiter {
			l.readChar() // closing delimiter
			if negative {
				offset = -offset
			}
			l.addField(token.DateField{Field: field, Offset: offset})
			return
		}
	}

	// not a placeholder: the run is literal text
	for !l.eof() && l.ch != Delimiter {
		l.readChar()
	}
	if !l.eof() {
		l.readChar() // closing delimiter of the literal run
	}
	l.text.WriteString(l.input[start:l.pos])
	l.state = l.resume
}

// readOffset reads a decimal run, saturating at date.MaxOffset
func (l *Lexer) readOffset() int64 {
	var n int64
	for !l.eof() && isDigit(l.ch) {
		if n < date.MaxOffset {
			n = n*10 + int64(l.ch-'0')
		}
		l.readChar()
	}
	return min(n, date.MaxOffset)
}

func (l *Lexer) readText() string {
	start := l.pos
	for !l.eof() && l.ch != Delimiter {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) addField(f token.DateField) {
	// a second placeholder of the same field closes the open segment
	if l.seen[f.Field] {
		l.flush()
	}
	l.closeText()
	l.buffer = append(l.buffer, f)
	l.seen[f.Field] = true
	l.state = inSegment
}

// closeText moves pending literal text into the buffer as one leaf
func (l *Lexer) closeText() {
	if l.text.Len() == 0 {
		return
	}
	l.buffer = append(l.buffer, token.Text{Content: l.text.String()})
	l.text.Reset()
}

func (l *Lexer) flush() {
	l.closeText()
	if l.hasField() {
		l.tokens = append(l.tokens, token.Segment{Leaves: l.buffer})
	} else {
		for _, leaf := range l.buffer {
			if text, ok := leaf.(token.Text); ok {
				l.tokens = append(l.tokens, text)
			}
		}
	}
	l.buffer = nil
	l.seen = [3]bool{}
	l.state = scanning
	l.resume = scanning
}

func (l *Lexer) hasField() bool {
	return l.seen[token.Day] || l.seen[token.Month] || l.seen[token.Year]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from input
func Tokenize(input string) []token.Token {
	if input == "" {
		return nil
	}
	return New(input).Run()
}
