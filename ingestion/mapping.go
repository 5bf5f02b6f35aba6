package ingestion

// SegmentMapping builds the index mapping for transcript segments: Arabic
// analysis on the text fields, a cosine dense vector of the given width,
// and keyword group identifiers so grouping compares byte-exact.
func SegmentMapping(dimensions int) map[string]any {
	arabicText := map[string]any{
		"type":     "text",
		"analyzer": "arabic",
	}

	return map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"arabic": map[string]any{
						"tokenizer": "standard",
						"filter": []string{
							"lowercase",
							"arabic_normalization",
							"arabic_stem",
						},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"text":           arabicText,
				"processed_text": arabicText,
				"question":       arabicText,
				"answer":         arabicText,
				"vector": map[string]any{
					"type":       "dense_vector",
					"dims":       dimensions,
					"index":      true,
					"similarity": "cosine",
				},
				"start":      map[string]any{"type": "float"},
				"end":        map[string]any{"type": "float"},
				"video_link": map[string]any{"type": "keyword"},
				"group_id":   map[string]any{"type": "keyword"},
				"sequence":   map[string]any{"type": "integer"},
			},
		},
	}
}
