package features

// Make tiers.
const (
	TierLuxury   = "Luxury"
	TierBudget   = "Budget"
	TierStandard = "Standard"
)

// Engine size buckets.
const (
	EngineSmall     = "Small"
	EngineMedium    = "Medium"
	EngineLarge     = "Large"
	EngineVeryLarge = "Very Large"
)

// Mileage buckets.
const (
	MileageLow      = "Low"
	MileageMedium   = "Medium"
	MileageHigh     = "High"
	MileageVeryHigh = "Very High"
)

var luxuryBrands = map[string]struct{}{
	"Mercedes-Benz": {}, "BMW": {}, "Audi": {}, "Lexus": {}, "Porsche": {},
	"Land Rover": {}, "Jaguar": {}, "Bentley": {}, "Rolls-Royce": {},
	"Cadillac": {}, "Maserati": {}, "Lamborghini": {}, "Ferrari": {},
}

var budgetBrands = map[string]struct{}{
	"Kia": {}, "Hyundai": {}, "Geely": {}, "Chery": {}, "Suzuki": {},
	"Daihatsu": {}, "Faw": {}, "Byd": {}, "Great Wall": {},
}

// Bucket is the outcome of a categorization. Defaulted is set when the input
// could not be parsed and the fallback label was used instead.
type Bucket struct {
	Label     string
	Defaulted bool
}

type threshold struct {
	below float64
	label string
}

var engineThresholds = []threshold{
	{1.5, EngineSmall},
	{2.5, EngineMedium},
	{4.0, EngineLarge},
}

var mileageThresholds = []threshold{
	{50000, MileageLow},
	{100000, MileageMedium},
	{150000, MileageHigh},
}

// CategorizeMake maps a manufacturer to its price tier.
func CategorizeMake(manufacturer string) string {
	if _, ok := luxuryBrands[manufacturer]; ok {
		return TierLuxury
	}
	if _, ok := budgetBrands[manufacturer]; ok {
		return TierBudget
	}
	return TierStandard
}

// CategorizeEngine buckets an engine displacement in litres.
func CategorizeEngine(size Value) Bucket {
	return bucketize(size, engineThresholds, EngineVeryLarge, EngineMedium)
}

// CategorizeMileage buckets an odometer reading.
func CategorizeMileage(miles Value) Bucket {
	return bucketize(miles, mileageThresholds, MileageVeryHigh, MileageMedium)
}

func bucketize(v Value, steps []threshold, top, fallback string) Bucket {
	f, ok := v.parseFloat()
	if !ok {
		return Bucket{Label: fallback, Defaulted: true}
	}
	for _, s := range steps {
		if f < s.below {
			return Bucket{Label: s.label}
		}
	}
	return Bucket{Label: top}
}
