package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/javajoker/kicks-catalog/internal/models"
)

const (
	DefaultWhatsAppPhone = "59800000000"
	DefaultLocale        = "es-UY"
	DefaultCurrency      = "UYU"

	checkoutMessage = "Hola, quiero comprar este modelo: %s (%s)"
)

// CheckoutURL builds the WhatsApp link that hands a purchase over to the
// shop's phone.
func CheckoutURL(phone string, p models.Product) string {
	if phone == "" {
		phone = DefaultWhatsAppPhone
	}
	text := fmt.Sprintf(checkoutMessage, p.Name, p.Brand)
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + url.PathEscape(phone) + "?text=" + escaped
}

type PriceFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func NewPriceFormatter(locale, code string) (*PriceFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return &PriceFormatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

func (f *PriceFormatter) Format(price float64) string {
	return f.printer.Sprintf("%v %v", currency.Symbol(f.unit), number.Decimal(price, number.Scale(2)))
}

var defaultFormatter = &PriceFormatter{
	printer: message.NewPrinter(language.MustParse(DefaultLocale)),
	unit:    currency.MustParseISO(DefaultCurrency),
}

// FormatPrice renders a price in Uruguayan pesos.
func FormatPrice(price float64) string {
	return defaultFormatter.Format(price)
}
