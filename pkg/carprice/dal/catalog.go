package dal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// CategoricalValues maps a categorical feature to the values offered in the UI.
type CategoricalValues map[string][]string

// MakeTypes maps a manufacturer to the body types observed for it.
type MakeTypes map[string][]string

// LoadCategoricalValues reads the dropdown catalog.
func LoadCategoricalValues(path string) (CategoricalValues, error) {
	var values CategoricalValues
	if err := readJSON(path, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = CategoricalValues{}
	}
	return values, nil
}

// LoadMakeTypes reads a precomputed make → types map.
func LoadMakeTypes(path string) (MakeTypes, error) {
	var mt MakeTypes
	if err := readJSON(path, &mt); err != nil {
		return nil, err
	}
	if mt == nil {
		mt = MakeTypes{}
	}
	return mt, nil
}

// BuildMakeTypes derives the make → types map from a reference dataset.
// Types keep the order in which they first appear for each make.
func BuildMakeTypes(ds *Dataset) MakeTypes {
	mt := MakeTypes{}
	if ds == nil {
		return mt
	}
	for _, mk := range ds.Unique(ColumnMake) {
		mt[mk] = ds.UniqueWhere(ColumnType, ColumnMake, mk)
	}
	return mt
}

// TypesForMake filters the dataset for the body types of one make.
func (d *Dataset) TypesForMake(mk string) []string {
	return d.UniqueWhere(ColumnType, ColumnMake, mk)
}

// ApplyReference replaces the Make and Type catalogs with the sorted
// distinct values found in the reference dataset.
func (v CategoricalValues) ApplyReference(ds *Dataset) {
	if ds == nil {
		return
	}
	for _, column := range []string{ColumnMake, ColumnType} {
		if !ds.HasColumn(column) {
			continue
		}
		values := ds.Unique(column)
		sort.Strings(values)
		v[column] = values
	}
}

// Names returns the catalog's feature names in sorted order.
func (v CategoricalValues) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
