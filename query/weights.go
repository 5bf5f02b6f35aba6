package query

import "errors"

// Weights holds the boost applied to each clause of a composed query.
// The values are configuration; the relative ordering is the contract:
//
//	Phrase > AllWords > SynonymEarly > CrossField > Fuzzy > SynonymLate >= Substring
//
// That ordering encodes the precision/recall trade-off the ranking
// depends on, and Validate enforces it.
type Weights struct {
	// Phrase boosts an exact phrase match on the raw query.
	Phrase float64
	// AllWords boosts a conjunctive match on every word of the raw query.
	AllWords float64
	// SynonymEarly boosts the first three expanded terms.
	SynonymEarly float64
	// CrossField boosts a match spanning the text and processed-text fields.
	CrossField float64
	// Fuzzy boosts an edit-distance-tolerant match.
	Fuzzy float64
	// SynonymLate boosts expanded terms past the first three.
	SynonymLate float64
	// Substring boosts a wildcard match for partial-token recall.
	Substring float64
	// MultiWordBool boosts the precision clause requiring every word of a
	// multi-word query to match somewhere.
	MultiWordBool float64
	// Vector boosts the cosine-similarity clause above the lexical query
	// in semantic mode.
	Vector float64
}

// ErrWeightOrdering indicates weights that break the required relative
// ordering of clause boosts.
var ErrWeightOrdering = errors.New("clause weights out of order")

// DefaultWeights returns the production boost values.
func DefaultWeights() Weights {
	return Weights{
		Phrase:        5.0,
		AllWords:      3.0,
		SynonymEarly:  2.5,
		CrossField:    2.3,
		Fuzzy:         1.8,
		SynonymLate:   1.5,
		Substring:     1.2,
		MultiWordBool: 2.2,
		Vector:        6.0,
	}
}

// Validate checks the relative ordering of the clause weights.
func (w Weights) Validate() error {
	ordered := w.Phrase > w.AllWords &&
		w.AllWords > w.SynonymEarly &&
		w.SynonymEarly > w.CrossField &&
		w.CrossField > w.Fuzzy &&
		w.Fuzzy > w.SynonymLate &&
		w.SynonymLate >= w.Substring
	if !ordered {
		return ErrWeightOrdering
	}
	if w.Vector <= w.Phrase {
		return ErrWeightOrdering
	}
	return nil
}
