package model

import (
	"fmt"
)

// Predictor is a trained regression model.
type Predictor interface {
	Predict(vector []float64) (float64, error)
	NumFeatures() int
}

// Kinds of serialized predictors.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// Ensemble aggregations.
const (
	AggregateMean = "mean" // random forest
	AggregateSum  = "sum"  // gradient boosting
)

// LinearModel is y = intercept + coefficients·x.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func (m *LinearModel) NumFeatures() int {
	return len(m.Coefficients)
}

func (m *LinearModel) Predict(vector []float64) (float64, error) {
	if err := checkLength(m, vector); err != nil {
		return 0, err
	}
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * vector[i]
	}
	return y, nil
}

// Node is one node of a regression tree. Left is -1 for leaves.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a regression tree stored as a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (t *Tree) eval(vector []float64) (float64, error) {
	i := 0
	// A well-formed tree reaches a leaf in at most len(Nodes) steps.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if i < 0 || i >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", i)
		}
		n := t.Nodes[i]
		if n.Left == -1 {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(vector) {
			return 0, fmt.Errorf("node %d splits on feature %d, vector has %d", i, n.Feature, len(vector))
		}
		if vector[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return 0, fmt.Errorf("tree does not terminate")
}

// TreeEnsemble is a forest (mean of trees) or a boosted ensemble
// (base score plus learning rate times the sum of trees).
type TreeEnsemble struct {
	Aggregation  string  `json:"aggregation"`
	BaseScore    float64 `json:"base_score"`
	LearningRate float64 `json:"learning_rate"`
	Features     int     `json:"n_features"`
	Trees        []Tree  `json:"trees"`
}

func (e *TreeEnsemble) NumFeatures() int {
	return e.Features
}

func (e *TreeEnsemble) Predict(vector []float64) (float64, error) {
	if err := checkLength(e, vector); err != nil {
		return 0, err
	}
	if len(e.Trees) == 0 {
		return 0, fmt.Errorf("ensemble has no trees")
	}
	var sum float64
	for i := range e.Trees {
		v, err := e.Trees[i].eval(vector)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	if e.Aggregation == AggregateMean {
		return sum / float64(len(e.Trees)), nil
	}
	rate := e.LearningRate
	if rate == 0 {
		rate = 1
	}
	return e.BaseScore + rate*sum, nil
}

func checkLength(p Predictor, vector []float64) error {
	if n := p.NumFeatures(); n > 0 && len(vector) != n {
		return fmt.Errorf("model expects %d features, got %d", n, len(vector))
	}
	return nil
}
