// Package ingestion turns a corpus of team-owned PDF manuals into per-team
// chunk lists.
//
// The Pipeline type parses documents in parallel with a bounded worker
// pool; a malformed document is logged and dropped without aborting the
// batch. Structuring builds a heading tree per document, the semantic
// chunker merges consecutive sentences into topically coherent passages,
// and the corpus builder tags every chunk with its team and source path.
package ingestion
