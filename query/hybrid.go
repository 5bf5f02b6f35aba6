package query

// Hybrid combines a lexical query with a vector-similarity clause into a
// single disjunctive ranked query. With a nil or empty vector the lexical
// query is returned unchanged, so degradation to lexical-only search is
// structurally transparent to the caller.
//
// The similarity clause scores by cosine similarity against each
// segment's stored vector, shifted by +1.0 so scores stay non-negative,
// and is boosted above the lexical query. Segments without a stored
// vector are excluded from the similarity clause but can still surface
// through the lexical side of the disjunction.
func (c *Composer) Hybrid(lexical map[string]any, vector []float32) map[string]any {
	if len(vector) == 0 {
		return lexical
	}

	similarity := map[string]any{
		"script_score": map[string]any{
			"query": map[string]any{
				"exists": map[string]any{"field": VectorField},
			},
			"script": map[string]any{
				"source": "cosineSimilarity(params.query_vector, '" + VectorField + "') + 1.0",
				"params": map[string]any{"query_vector": vector},
			},
			"boost": c.weights.Vector,
		},
	}

	return map[string]any{
		"bool": map[string]any{
			"should":               []map[string]any{similarity, lexical},
			"minimum_should_match": 1,
		},
	}
}
