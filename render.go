package formula

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Render formats a computed value for display in the given locale.
// Currency values render with a dollar sign, grouped digits, and two
// decimal places; percent values append a percent sign; plain values
// render with the locale's decimal conventions.
func Render(v Value, tag language.Tag) string {
	p := message.NewPrinter(tag)
	switch v.Format {
	case FormatCurrency:
		return p.Sprintf("$%v", number.Decimal(v.Number, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	case FormatPercent:
		return p.Sprintf("%v%%", number.Decimal(v.Number))
	default:
		return p.Sprintf("%v", number.Decimal(v.Number))
	}
}

// RenderEnglish renders a value with US English conventions, the default
// used by the command-line tool.
func RenderEnglish(v Value) string {
	return Render(v, language.AmericanEnglish)
}
