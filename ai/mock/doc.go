// Package mock provides deterministic test doubles for the ai package
// interfaces. Defaults are deterministic (hash-derived embeddings,
// lexical-overlap rerank scores) and every mock accepts injected behavior
// through function fields.
package mock
