package valueobject

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders amounts for display in customer-facing text.
type MoneyFormatter interface {
	Format(m Money) string
}

// LocaleFormatter formats money with the grouping rules of a locale,
// a currency symbol prefix and a fixed number of fraction digits.
//
// The integer part is printed from an int64, never a float, so amounts
// keep every digit. Fraction digits come from the decimal itself.
type LocaleFormatter struct {
	printer        *message.Printer
	symbol         string
	fractionDigits int
	groupSep       string
	decimalSep     string
}

// NewLocaleFormatter creates a formatter for the given BCP 47 tag.
// Unknown tags fall back to Spanish.
func NewLocaleFormatter(tag, symbol string, fractionDigits int) *LocaleFormatter {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.Spanish
	}
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	printer := message.NewPrinter(lang)
	return &LocaleFormatter{
		printer:        printer,
		symbol:         symbol,
		fractionDigits: fractionDigits,
		groupSep:       separator(printer.Sprint(number.Decimal(1000000))),
		decimalSep:     separator(printer.Sprint(number.Decimal(1.5, number.MinFractionDigits(1)))),
	}
}

// NewCOPFormatter returns the storefront's default peso formatter: "$ 160.000".
func NewCOPFormatter() *LocaleFormatter {
	return NewLocaleFormatter("es", "$", 0)
}

// Format implements MoneyFormatter
func (f *LocaleFormatter) Format(m Money) string {
	rounded := m.Amount().Round(int32(f.fractionDigits))
	abs := rounded.Abs()

	n := f.formatInteger(abs.Truncate(0))
	if f.fractionDigits > 0 {
		fixed := abs.StringFixed(int32(f.fractionDigits))
		n += f.decimalSep + fixed[strings.IndexByte(fixed, '.')+1:]
	}
	if rounded.IsNegative() {
		n = "-" + n
	}
	if f.symbol == "" {
		return n
	}
	return f.symbol + " " + n
}

func (f *LocaleFormatter) formatInteger(d decimal.Decimal) string {
	if i := d.BigInt(); i.IsInt64() {
		return f.printer.Sprint(number.Decimal(i.Int64()))
	}
	digits := d.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(f.groupSep)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// separator returns the first run of non-digit characters in s
func separator(s string) string {
	start := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if start < 0 {
		return ""
	}
	end := strings.IndexFunc(s[start:], unicode.IsDigit)
	if end < 0 {
		return s[start:]
	}
	return s[start : start+end]
}
