// Package format renders money and dates the way storefront customers and
// sellers read them (Brazilian Portuguese).
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	currencySymbol = "R$"
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats an amount in centavos, e.g. 123456 -> "R$ 1.234,56".
func BRL(cents int64) string {
	return currencySymbol + " " + printer.Sprintf("%.2f", float64(cents)/100)
}

// Date formats t as dd/mm/yyyy.
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

func DateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

// ISO formats t as RFC 3339, the wire format for timestamps.
func ISO(t time.Time) string {
	return t.Format(time.RFC3339)
}
