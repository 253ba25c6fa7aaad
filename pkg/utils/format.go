package utils

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// format.go - форматирование денежных сумм и процентов для ответов API
//
// Группировка разрядов делается через golang.org/x/text/message,
// чтобы получать "$1,234.56", а не "$1234.56".

var printer = message.NewPrinter(language.English)

// FormatCurrency форматирует сумму в долларах с разделителями разрядов.
//
// Примеры:
//   - FormatCurrency(1234.5, 2) = "$1,234.50"
//   - FormatCurrency(-2459.2, 2) = "-$2,459.20"
//   - FormatCurrency(128450.82, 0) = "$128,451"
func FormatCurrency(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}

	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	return sign + "$" + printer.Sprintf(fmt.Sprintf("%%.%df", decimals), value)
}

// FormatPercentage форматирует процент со знаком.
//
// Примеры:
//   - FormatPercentage(28.45, 2) = "+28.45%"
//   - FormatPercentage(-2.46, 1) = "-2.5%"
//   - FormatPercentage(0, 2) = "+0.00%"
func FormatPercentage(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if value == 0 || math.IsNaN(value) {
		value = 0
	}

	sign := "+"
	if value < 0 {
		sign = "-"
		value = -value
	}

	return sign + fmt.Sprintf("%.*f", decimals, value) + "%"
}

// Round округляет значение до указанного количества знаков после запятой
func Round(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(value*pow) / pow
}
