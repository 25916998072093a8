package formula

import (
	"strings"
	"testing"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    float64
		format  Format
		wantErr bool
	}{
		{"float", 1.5, 1.5, FormatPlain, false},
		{"int", 7, 7, FormatPlain, false},
		{"nil", nil, 0, FormatPlain, false},
		{"true", true, 1, FormatPlain, false},
		{"false", false, 0, FormatPlain, false},
		{"empty string", "", 0, FormatPlain, false},
		{"blank string", "   ", 0, FormatPlain, false},
		{"plain string", "12.5", 12.5, FormatPlain, false},
		{"negative string", "-3", -3, FormatPlain, false},
		{"dollar", "$5", 5, FormatCurrency, false},
		{"grouped currency", "$1,200.00", 1200, FormatCurrency, false},
		{"euro", "€42", 42, FormatCurrency, false},
		{"percent", "50%", 50, FormatPercent, false},
		{"spaced", "  $7  ", 7, FormatCurrency, false},
		{"words", "hello", 0, FormatPlain, true},
		{"double percent", "50%%", 0, FormatPlain, true},
		{"struct", struct{}{}, 0, FormatPlain, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := coerceValue(tt.raw, "test")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %v", tt.raw)
				}
				if asEvalError(err).Kind != KindConversion {
					t.Errorf("got kind %d, want KindConversion", asEvalError(err).Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Number != tt.want {
				t.Errorf("got %v, want %v", v.Number, tt.want)
			}
			if v.Format != tt.format {
				t.Errorf("got format %v, want %v", v.Format, tt.format)
			}
		})
	}
}

func TestCoerceValueErrorNamesContext(t *testing.T) {
	_, err := coerceValue("nope", `column "Revenue"`)
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `"nope"`) || !strings.Contains(msg, `column "Revenue"`) {
		t.Errorf("error should name the value and location, got %q", msg)
	}
}

func TestMergeFormat(t *testing.T) {
	tests := []struct {
		a, b, want Format
	}{
		{FormatPlain, FormatPlain, FormatPlain},
		{FormatPlain, FormatPercent, FormatPercent},
		{FormatPercent, FormatPlain, FormatPercent},
		{FormatPercent, FormatCurrency, FormatCurrency},
		{FormatCurrency, FormatPercent, FormatCurrency},
		{FormatCurrency, FormatPlain, FormatCurrency},
	}
	for _, tt := range tests {
		if got := mergeFormat(tt.a, tt.b); got != tt.want {
			t.Errorf("mergeFormat(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRangeValueSkipsNonNumeric(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		ok   bool
	}{
		{"number", 3.0, true},
		{"numeric string", "$9", true},
		{"empty", "", false},
		{"nil", nil, false},
		{"bool", true, false},
		{"words", "n/a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := rangeValue(tt.raw); ok != tt.ok {
				t.Errorf("rangeValue(%v) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
		})
	}
}

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		index   int
		letters string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tt := range tests {
		t.Run(tt.letters, func(t *testing.T) {
			if got := columnLetters(tt.index); got != tt.letters {
				t.Errorf("columnLetters(%d) = %q, want %q", tt.index, got, tt.letters)
			}
			back, err := columnIndex(tt.letters)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if back != tt.index {
				t.Errorf("columnIndex(%q) = %d, want %d", tt.letters, back, tt.index)
			}
		})
	}
}
