package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const FallbackCurrency = "$0.00"

// Languages whose currency layout is "1.234,56 €". Regions listed in
// prefixRegions write the symbol first even for these languages.
var (
	suffixLanguages = map[string]bool{
		"bg": true, "ca": true, "cs": true, "da": true, "de": true, "el": true,
		"es": true, "et": true, "fi": true, "fr": true, "hr": true, "hu": true,
		"it": true, "lt": true, "lv": true, "nb": true, "no": true, "pl": true,
		"ro": true, "ru": true, "sk": true, "sl": true, "sv": true, "uk": true,
	}
	prefixRegions = map[string]bool{"AT": true, "CH": true, "LI": true}
)

// CurrencyFormatter renders amounts with the separators of a locale and a
// fixed currency symbol placed where the locale expects it, always with two
// fraction digits. Digits come straight from the decimal, so amounts of any
// size keep their cents.
type CurrencyFormatter struct {
	symbol      string
	group       string
	decimal     string
	symbolAfter bool
}

func NewCurrencyFormatter(locale, symbol string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	if symbol == "" {
		return nil, NewDomainError("currency symbol cannot be empty")
	}

	group, dec := separators(message.NewPrinter(tag))
	base, _ := tag.Base()
	region, _ := tag.Region()
	return &CurrencyFormatter{
		symbol:      symbol,
		group:       group,
		decimal:     dec,
		symbolAfter: suffixLanguages[base.String()] && !prefixRegions[region.String()],
	}, nil
}

// separators reads the grouping and decimal separators off a sample number
// printed for the locale.
func separators(p *message.Printer) (group, dec string) {
	sample := p.Sprintf("%v", number.Decimal(1234567.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	if strings.Contains(sample, "%!") {
		return ",", "."
	}

	var runs []string
	var cur strings.Builder
	for _, r := range sample {
		if unicode.IsDigit(r) {
			if cur.Len() > 0 {
				runs = append(runs, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}

	switch len(runs) {
	case 0:
		return ",", "."
	case 1:
		return "", runs[0]
	default:
		return runs[0], runs[len(runs)-1]
	}
}

var defaultFormatter = mustCurrencyFormatter("en-US", "$")

func mustCurrencyFormatter(locale, symbol string) *CurrencyFormatter {
	f, err := NewCurrencyFormatter(locale, symbol)
	if err != nil {
		panic(err)
	}
	return f
}

func DefaultCurrencyFormatter() *CurrencyFormatter {
	return defaultFormatter
}

// FormatCurrency formats with the en-US defaults, e.g. "$45.75".
func FormatCurrency(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}

func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole, frac, ok := strings.Cut(rounded.Abs().StringFixed(2), ".")
	if !ok || whole == "" || len(frac) != 2 {
		return FallbackCurrency
	}
	digits := groupThousands(whole, f.group) + f.decimal + frac

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	if f.symbolAfter {
		return sign + digits + "\u00a0" + f.symbol
	}
	return sign + f.symbol + digits
}

func groupThousands(whole, sep string) string {
	if sep == "" || len(whole) <= 3 {
		return whole
	}
	var b strings.Builder
	head := len(whole) % 3
	if head > 0 {
		b.WriteString(whole[:head])
	}
	for i := head; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}
