package token

import (
	"encoding/json"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoded is the flat, tagged wire form of a token or leaf
type Encoded struct {
	Type   string    `json:"type" msgpack:"type"`
	Value  string    `json:"value,omitempty" msgpack:"value,omitempty"`
	Leaves []Encoded `json:"leaves,omitempty" msgpack:"leaves,omitempty"`
}

// Encode converts a token stream to its wire form
func Encode(tokens []Token) []Encoded {
	out := make([]Encoded, 0, len(tokens))
	for _, tok := range tokens {
		switch t := tok.(type) {
		case Text:
			out = append(out, encodeLeaf(t))
		case Segment:
			seg := Encoded{Type: "date_segment", Leaves: make([]Encoded, 0, len(t.Leaves))}
			for _, leaf := range t.Leaves {
				seg.Leaves = append(seg.Leaves, encodeLeaf(leaf))
			}
			out = append(out, seg)
		}
	}
	return out
}

func encodeLeaf(leaf Leaf) Encoded {
	switch l := leaf.(type) {
	case Text:
		return Encoded{Type: "text", Value: l.Content}
	case DateField:
		return Encoded{Type: l.Field.String(), Value: FormatOffset(l.Offset)}
	}
	return Encoded{Type: "unknown"}
}

// WriteJSON writes the token stream as indented JSON
func WriteJSON(w io.Writer, tokens []Token) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Encode(tokens))
}

// WriteMsgpack writes the token stream as a msgpack array
func WriteMsgpack(w io.Writer, tokens []Token) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(Encode(tokens))
}
