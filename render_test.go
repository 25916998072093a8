package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestRenderEnglish(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"currency grouped", Value{Number: 1200, Format: FormatCurrency}, "$1,200.00"},
		{"currency cents", Value{Number: 8, Format: FormatCurrency}, "$8.00"},
		{"percent", Value{Number: 50, Format: FormatPercent}, "50%"},
		{"plain", Value{Number: 20.17, Format: FormatPlain}, "20.17"},
		{"plain integer", Value{Number: 36, Format: FormatPlain}, "36"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderEnglish(tt.v))
		})
	}
}

func TestRenderLocaleSeparators(t *testing.T) {
	v := Value{Number: 1234.5, Format: FormatPlain}
	assert.Equal(t, "1,234.5", Render(v, language.AmericanEnglish))
	assert.Equal(t, "1.234,5", Render(v, language.German))
}
