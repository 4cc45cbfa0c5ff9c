package features

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
)

// Source and derived feature names.
const (
	FieldMake       = "Make"
	FieldType       = "Type"
	FieldYear       = "Year"
	FieldEngineSize = "Engine_Size"
	FieldMileage    = "Mileage"

	FieldCarAge          = "Car_Age"
	FieldMakeCategory    = "Make_Category"
	FieldEngineCategory  = "Engine_Category"
	FieldMileageCategory = "Mileage_Category"
)

// Schema is everything the assembler needs to know about the trained model.
type Schema struct {
	Categorical   []string
	Features      []string
	Encoders      map[string]*LabelEncoder
	ReferenceYear int
}

// Assembler turns raw submitted fields into the model's feature vector.
// It holds only read-only state and is safe for concurrent use.
type Assembler struct {
	categorical   map[string]struct{}
	catOrder      []string
	order         []string
	encoders      map[string]*LabelEncoder
	referenceYear float64
}

// NewAssembler validates schema and returns an Assembler for it.
func NewAssembler(schema Schema) (*Assembler, error) {
	if len(schema.Features) == 0 {
		return nil, fmt.Errorf("feature list is empty")
	}
	categorical := make(map[string]struct{}, len(schema.Categorical))
	for _, name := range schema.Categorical {
		if _, ok := schema.Encoders[name]; !ok {
			return nil, fmt.Errorf("no encoder for categorical feature %q", name)
		}
		categorical[name] = struct{}{}
	}
	order := make([]string, len(schema.Features))
	copy(order, schema.Features)
	return &Assembler{
		categorical:   categorical,
		catOrder:      append([]string(nil), schema.Categorical...),
		order:         order,
		encoders:      schema.Encoders,
		referenceYear: float64(schema.ReferenceYear),
	}, nil
}

// Order returns the feature order of the vectors produced.
func (a *Assembler) Order() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// IsCategorical reports whether name is a categorical feature.
func (a *Assembler) IsCategorical(name string) bool {
	_, ok := a.categorical[name]
	return ok
}

// Classify converts raw form fields into a Record: categorical fields stay
// strings, every other field must parse as a number. Fields are visited in
// name order, so the first offending field reported is deterministic.
func (a *Assembler) Classify(fields map[string]string) (Record, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	rec := make(Record, len(fields)+4)
	for _, name := range names {
		raw := fields[name]
		if raw == "" {
			return nil, apperrors.NewMissingFieldError(name)
		}
		if a.IsCategorical(name) {
			rec[name] = String(raw)
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, apperrors.NewInvalidNumberError(name, raw)
		}
		rec[name] = Number(f)
	}
	return rec, nil
}

// Derive adds the engineered fields computed at training time.
// Derived fields are only consumed if the feature order lists them.
func (a *Assembler) Derive(rec Record) {
	if year, ok := rec[FieldYear]; ok {
		if y, isNum := year.Float(); isNum {
			rec[FieldCarAge] = Number(a.referenceYear - y)
		}
	}
	if mk, ok := rec[FieldMake]; ok {
		rec[FieldMakeCategory] = String(CategorizeMake(mk.Text()))
	}
	if size, ok := rec[FieldEngineSize]; ok {
		rec[FieldEngineCategory] = String(CategorizeEngine(size).Label)
	}
	if miles, ok := rec[FieldMileage]; ok {
		rec[FieldMileageCategory] = String(CategorizeMileage(miles).Label)
	}
}

// Encode replaces every categorical field present in rec with its code.
func (a *Assembler) Encode(rec Record) error {
	for _, name := range a.catOrder {
		v, ok := rec[name]
		if !ok {
			continue
		}
		code, err := a.encoders[name].Encode(v.Text())
		if err != nil {
			return err
		}
		rec[name] = Number(float64(code))
	}
	return nil
}

// Vector reads rec in feature order, using zero for absent features.
func (a *Assembler) Vector(rec Record) ([]float64, error) {
	vec := make([]float64, len(a.order))
	for i, name := range a.order {
		v, ok := rec[name]
		if !ok {
			continue
		}
		f, isNum := v.Float()
		if !isNum {
			return nil, apperrors.NewInternalError(fmt.Errorf("feature %s has non-numeric value %q", name, v.Text()))
		}
		vec[i] = f
	}
	return vec, nil
}

// Assemble runs classification, derivation, encoding and vector construction.
func (a *Assembler) Assemble(fields map[string]string) ([]float64, error) {
	rec, err := a.Classify(fields)
	if err != nil {
		return nil, err
	}
	a.Derive(rec)
	if err := a.Encode(rec); err != nil {
		return nil, err
	}
	return a.Vector(rec)
}
