// Package textproc provides the text normalization and segmentation rules
// shared by ingestion and search.
//
// Two tokenizers coexist on purpose: ContentTokens produces the query-side
// token set (lower-cased, stop words and punctuation removed), while
// ExactMatchTokens is the coarse chunk-side normalizer used for keyword
// overlap and weight lookups. They must not be unified; the scoring rules
// depend on their asymmetry.
package textproc

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits text into sentences and content tokens.
type Segmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSegmenter creates a segmenter backed by the trained English sentence
// tokenizer.
func NewSegmenter() (*Segmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &Segmenter{tokenizer: tokenizer}, nil
}

// Sentences splits text into trimmed, non-empty sentences. Blank input
// yields an empty result.
func (s *Segmenter) Sentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := s.tokenizer.Tokenize(text)
	result := make([]string, 0, len(raw))
	for _, sent := range raw {
		trimmed := strings.TrimSpace(sent.Text)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ContentTokens splits text into lower-cased tokens with stop words,
// punctuation and whitespace removed.
func (s *Segmenter) ContentTokens(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?;:'\"-()[]{}")
		if cleaned != "" && !stopWords[cleaned] {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// Stop words filtered out of query tokens.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "or": true,
	"in": true, "that": true, "have": true, "has": true, "it": true,
	"for": true, "not": true, "on": true, "with": true, "as": true,
	"you": true, "do": true, "does": true, "at": true, "this": true,
	"but": true, "by": true, "from": true, "my": true, "our": true,
	"we": true, "i": true, "can": true, "cannot": true, "how": true,
	"what": true, "when": true, "where": true, "why": true, "which": true,
	"will": true, "would": true, "should": true, "there": true, "their": true,
}
