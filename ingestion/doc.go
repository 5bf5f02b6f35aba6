// Package ingestion loads transcript files into the index and enriches
// indexed segments with vector embeddings.
//
// The Pipeline parses a transcript, merges adjacent short spans into
// readable chunks, derives content-addressed document IDs and normalized
// text, and bulk-indexes the result in concurrent batches. The Enricher
// walks segments that are still missing embeddings and back-fills them.
// Both stages record checkpoints so an interrupted run can resume.
package ingestion
