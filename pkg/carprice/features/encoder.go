package features

import (
	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
)

// LabelEncoder maps the labels a categorical feature was trained on to their
// integer codes. The code of a label is its index in the fitted class list.
type LabelEncoder struct {
	feature string
	classes []string
	codes   map[string]int
}

// NewLabelEncoder builds an encoder from the fitted class list.
func NewLabelEncoder(feature string, classes []string) *LabelEncoder {
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; !dup {
			codes[c] = i
		}
	}
	return &LabelEncoder{feature: feature, classes: classes, codes: codes}
}

// Encode returns the code of value, or an unknown-category error when the
// value was not seen during training.
func (e *LabelEncoder) Encode(value string) (int, error) {
	code, ok := e.codes[value]
	if !ok {
		return 0, apperrors.NewUnknownCategoryError(e.feature, value)
	}
	return code, nil
}

// Classes returns the fitted vocabulary in code order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
