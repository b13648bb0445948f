package token

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestTokenString(t *testing.T) {
	text := Text{Content: "Hello"}
	if got := text.String(); got != "[text: 'Hello']" {
		t.Errorf("Text.String() = %q", got)
	}

	day := DateField{Field: Day, Offset: 1}
	if got := day.String(); got != "[day: '+1']" {
		t.Errorf("DateField.String() = %q", got)
	}

	month := DateField{Field: Month}
	if got := month.String(); got != "[month: '0']" {
		t.Errorf("DateField.String() = %q", got)
	}

	seg := Segment{Leaves: []Leaf{Text{Content: "on "}, DateField{Field: Year, Offset: -2}}}
	want := "[date_segment: [[text: 'on '], [year: '-2']]]"
	if got := seg.String(); got != want {
		t.Errorf("Segment.String() = %q, want %q", got, want)
	}
}

func TestLookupField(t *testing.T) {
	for _, f := range []Field{Day, Month, Year} {
		got, ok := LookupField(f.Letter())
		if !ok || got != f {
			t.Errorf("LookupField(%q) = %v, %v; want %v", f.Letter(), got, ok, f)
		}
	}
	if _, ok := LookupField('x'); ok {
		t.Errorf("LookupField('x') should fail")
	}
	if _, ok := LookupField('D'); ok {
		t.Errorf("LookupField('D') should fail, letters are lower case")
	}
	if Field(7).Letter() != 0 {
		t.Errorf("unknown fields have no letter")
	}
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		field DateField
		want  string
	}{
		{DateField{Field: Day}, "#d#"},
		{DateField{Field: Month, Offset: -1}, "#m-1#"},
		{DateField{Field: Year, Offset: 10}, "#y+10#"},
	}
	for _, tt := range tests {
		if got := tt.field.Placeholder(); got != tt.want {
			t.Errorf("%v.Placeholder() = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestSegmentFields(t *testing.T) {
	seg := Segment{Leaves: []Leaf{
		DateField{Field: Day, Offset: -2},
		Text{Content: ". "},
		DateField{Field: Month, Offset: 1},
	}}
	fields := seg.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Field != Day || fields[1].Field != Month {
		t.Errorf("unexpected field order: %v", fields)
	}
}

func TestWriteJSON(t *testing.T) {
	tokens := []Token{
		Segment{Leaves: []Leaf{Text{Content: "Due "}, DateField{Field: Day, Offset: 14}}},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, tokens); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"type": "date_segment"`, `"type": "day"`, `"value": "+14"`, `"value": "Due "`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestWriteMsgpack(t *testing.T) {
	tokens := []Token{Text{Content: "plain"}}
	var buf bytes.Buffer
	if err := WriteMsgpack(&buf, tokens); err != nil {
		t.Fatalf("WriteMsgpack failed: %v", err)
	}

	var decoded []Encoded
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Type != "text" || decoded[0].Value != "plain" {
		t.Errorf("unexpected decoded tokens: %+v", decoded)
	}
}
