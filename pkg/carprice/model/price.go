package model

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
)

// Bounds of a price that fits in an int64 after rounding.
const (
	minPrice = -(1 << 63)
	maxPrice = 1 << 63
)

var printer = message.NewPrinter(language.English)

// Price is a finalized prediction.
type Price struct {
	Raw       int64
	Formatted string
}

// Finalize maps a raw model output back to a price. Log models predict
// log(1+price), so the inverse expm1 is applied first. Rounding is half to even.
// Outputs that are not finite or do not fit an int64 are internal errors.
func Finalize(output float64, isLog bool) (Price, error) {
	price := output
	if isLog {
		price = math.Expm1(output)
	}
	rounded := math.RoundToEven(price)
	if math.IsNaN(rounded) || rounded < minPrice || rounded >= maxPrice {
		return Price{}, apperrors.NewInternalError(fmt.Errorf("model output %v does not map to a price", output))
	}
	raw := int64(rounded)
	return Price{Raw: raw, Formatted: FormatThousands(raw)}, nil
}

// FormatThousands renders n with comma thousands separators.
func FormatThousands(n int64) string {
	return printer.Sprintf("%d", n)
}
