package query

import (
	"strings"

	"github.com/poiesic/lectern/arabic"
)

// Field names of the persisted transcript schema.
const (
	TextField          = "text"
	ProcessedTextField = "processed_text"
	VectorField        = "vector"
)

// earlySynonyms is how many expanded terms receive the higher synonym
// boost before falling back to the late weight.
const earlySynonyms = 3

// Composer builds ranked queries from a raw query term and its synonym
// expansion. A Composer is immutable and safe for concurrent use.
type Composer struct {
	weights  Weights
	expander *arabic.Expander
}

// Option configures a Composer.
type Option func(*Composer) error

// WithWeights overrides the default clause weights.
// The weights must satisfy the required ordering.
func WithWeights(w Weights) Option {
	return func(c *Composer) error {
		if err := w.Validate(); err != nil {
			return err
		}
		c.weights = w
		return nil
	}
}

// WithExpander sets a custom synonym expander.
// Default is the built-in table.
func WithExpander(e *arabic.Expander) Option {
	return func(c *Composer) error {
		if e == nil {
			e = arabic.NewExpander()
		}
		c.expander = e
		return nil
	}
}

// NewComposer creates a Composer with default weights and the built-in
// synonym table.
func NewComposer(opts ...Option) (*Composer, error) {
	c := &Composer{
		weights:  DefaultWeights(),
		expander: arabic.NewExpander(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Weights returns the composer's clause weights.
func (c *Composer) Weights() Weights {
	return c.weights
}

// Match builds the plain lexical query used in lexical mode: a single
// term match on the text field, no boosting.
func (c *Composer) Match(term string) map[string]any {
	return map[string]any{
		"match": map[string]any{
			TextField: term,
		},
	}
}

// Lexical builds the enhanced multi-clause query: a disjunction where at
// least one clause must match, with clause boosts decreasing from exact
// phrase down to substring recall. The raw term is matched as typed;
// synonym clauses match the normalized expansion.
func (c *Composer) Lexical(term string) map[string]any {
	expanded := c.expander.Expand(term)

	should := make([]map[string]any, 0, len(expanded)+6)

	// 1. Exact phrase match on the raw term.
	should = append(should, map[string]any{
		"match_phrase": map[string]any{
			TextField: map[string]any{
				"query": term,
				"boost": c.weights.Phrase,
			},
		},
	})

	// 2. Conjunctive match on all words of the raw term.
	should = append(should, map[string]any{
		"match": map[string]any{
			TextField: map[string]any{
				"query":    term,
				"operator": "and",
				"boost":    c.weights.AllWords,
			},
		},
	})

	// 3. Fuzzy match for typos.
	should = append(should, map[string]any{
		"fuzzy": map[string]any{
			TextField: map[string]any{
				"value":     term,
				"fuzziness": "AUTO",
				"boost":     c.weights.Fuzzy,
			},
		},
	})

	// 4. One clause per expanded term, skipping the original.
	for i, synonym := range expanded[min(1, len(expanded)):] {
		boost := c.weights.SynonymEarly
		if i >= earlySynonyms {
			boost = c.weights.SynonymLate
		}
		should = append(should, map[string]any{
			"match": map[string]any{
				TextField: map[string]any{
					"query": synonym,
					"boost": boost,
				},
			},
		})
	}

	// 5. Cross-field match over raw and normalized text.
	should = append(should, map[string]any{
		"multi_match": map[string]any{
			"query":  term,
			"fields": []string{TextField + "^3", ProcessedTextField + "^2"},
			"type":   "best_fields",
			"boost":  c.weights.CrossField,
		},
	})

	// 6. Wildcard match for partial-token recall.
	should = append(should, map[string]any{
		"wildcard": map[string]any{
			TextField: map[string]any{
				"value": "*" + term + "*",
				"boost": c.weights.Substring,
			},
		},
	})

	// 7. Precision booster: every individual word must match somewhere.
	if words := strings.Fields(term); len(words) > 1 {
		must := make([]map[string]any, len(words))
		for i, word := range words {
			must[i] = map[string]any{
				"match": map[string]any{TextField: word},
			}
		}
		should = append(should, map[string]any{
			"bool": map[string]any{
				"must":  must,
				"boost": c.weights.MultiWordBool,
			},
		})
	}

	return map[string]any{
		"bool": map[string]any{
			"should":               should,
			"minimum_should_match": 1,
		},
	}
}
