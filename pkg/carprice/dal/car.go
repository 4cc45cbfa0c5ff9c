package dal

import (
	"math"
)

// Column names of the evaluation and reference datasets.
const (
	ColumnMake            = "Make"
	ColumnType            = "Type"
	ColumnYear            = "Year"
	ColumnPrice           = "Price"
	ColumnPredictedPrice  = "Predicted_Price"
	ColumnEngineSize      = "Engine_Size"
	ColumnMileage         = "Mileage"
	ColumnErrorPercentage = "Error_Percentage"
)

// Car defines one evaluation row prepared for display
type Car map[string]interface{}

// CarsResponse defines the samples HTTP response struct
type CarsResponse struct {
	Success     bool                `json:"success"`
	Samples     []Car               `json:"samples"`
	MakeTypeMap map[string][]string `json:"make_type_map"`
}

// scoredCar pairs a row index with its sort key.
type scoredCar struct {
	row    int
	absErr float64
}

// displayCar coerces numeric cells to the types used for display:
// prices and mileage as integers, engine size as a float. NaN and infinite
// cells become null, like missing ones.
func displayCar(rec map[string]interface{}) Car {
	car := make(Car, len(rec))
	for key, value := range rec {
		f, isNum := cellFloat(value)
		if !isNum {
			car[key] = value
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			car[key] = nil
			continue
		}
		switch key {
		case ColumnPrice, ColumnPredictedPrice, ColumnMileage:
			car[key] = int64(f)
		case ColumnEngineSize:
			car[key] = f
		default:
			car[key] = value
		}
	}
	return car
}

// mergeSort orders rows by ascending absolute error. It is stable, so rows
// with equal error keep their file order.
func mergeSort(arrCar []scoredCar) []scoredCar {
	if len(arrCar) <= 1 {
		return arrCar
	}

	middle := len(arrCar) / 2
	left := mergeSort(arrCar[:middle])
	right := mergeSort(arrCar[middle:])
	return merge(left, right)
}

func merge(left, right []scoredCar) []scoredCar {
	result := make([]scoredCar, len(left)+len(right))
	for i := 0; len(left) > 0 || len(right) > 0; i++ {
		if len(left) > 0 && len(right) > 0 {
			if right[0].absErr < left[0].absErr {
				result[i] = right[0]
				right = right[1:]
			} else {
				result[i] = left[0]
				left = left[1:]
			}
		} else if len(left) > 0 {
			result[i] = left[0]
			left = left[1:]
		} else if len(right) > 0 {
			result[i] = right[0]
			right = right[1:]
		}
	}
	return result
}

// Samples returns up to n evaluation rows for display. When the dataset
// carries an error column, the rows with the smallest absolute error come
// first; otherwise the first n rows are used. Rows with no error sort last.
func (d *Dataset) Samples(n int) []Car {
	if n <= 0 {
		return []Car{}
	}
	rows := make([]int, 0, d.Len())
	if d.HasColumn(ColumnErrorPercentage) {
		scored := make([]scoredCar, d.Len())
		for r := range d.Rows {
			v, _ := d.Value(r, ColumnErrorPercentage)
			f, ok := cellFloat(v)
			if !ok || math.IsNaN(f) {
				f = math.Inf(1)
			}
			scored[r] = scoredCar{row: r, absErr: math.Abs(f)}
		}
		for _, s := range mergeSort(scored) {
			rows = append(rows, s.row)
		}
	} else {
		for r := range d.Rows {
			rows = append(rows, r)
		}
	}
	if len(rows) > n {
		rows = rows[:n]
	}

	out := make([]Car, len(rows))
	for i, r := range rows {
		out[i] = displayCar(d.Record(r))
	}
	return out
}
