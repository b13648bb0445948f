package parser

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-28", "2024-03-28"},
		{"  2024-03-28\n", "2024-03-28"},
		{"2024/03/28", "2024-03-28"},
		{"20240328", "2024-03-28"},
		{"28.3.2024", "2024-03-28"},
		{"28. 3. 2024", "2024-03-28"},
		{"28.03.2024.", "2024-03-28"},
		{"28-3-2024", "2024-03-28"},
		{"28/3/2024", "2024-03-28"},
		{"28 March 2024", "2024-03-28"},
		{"28. Mar 2024", "2024-03-28"},
		{"28-Mar-2024", "2024-03-28"},
		{"March 28, 2024", "2024-03-28"},
		{"march 28 2024", "2024-03-28"},
		{"Sept 1, 2023", "2023-09-01"},
		{"29 Feb 2024", "2024-02-29"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) failed: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"invalid",
		"2024-13-28",
		"2023-02-29",
		"2024-03-32",
		"2024-03/28",
		"28.3.24",
		"2024",
		"240328",
		"Marchy 28, 2024",
		"today",
		"2024-03-28T10:00:00",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input)
			if err == nil {
				t.Fatalf("ParseDate(%q) should fail", input)
			}
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("ParseDate(%q) error %v does not wrap ErrInvalidDate", input, err)
			}
		})
	}
}

func TestDateFromParam(t *testing.T) {
	d, ok := DateFromParam("2024-03-28")
	if !ok {
		t.Fatal("expected a date")
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 28 {
		t.Errorf("got %s", d)
	}

	for _, param := range []string{"invalid", "", "2024-13-28"} {
		if _, ok := DateFromParam(param); ok {
			t.Errorf("DateFromParam(%q) should fail soft", param)
		}
	}
}

func TestNewReturnsSharedParser(t *testing.T) {
	p1, err := New()
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	p2, _ := New()
	if p1 != p2 {
		t.Errorf("expected the shared parser instance")
	}
}
