package routing

import (
	"strings"

	"github.com/poiesic/ticketrouter/core"
	"github.com/poiesic/ticketrouter/textproc"
)

// teamSentence is one sentence of the team-wide flattened sequence together
// with the chunk position it came from.
type teamSentence struct {
	text  string
	chunk int
}

// flattenSentences re-segments every chunk of a team into one flat,
// chunk-ordered sentence sequence.
func flattenSentences(segmenter *textproc.Segmenter, chunks []core.Chunk) []teamSentence {
	var flat []teamSentence
	for i, c := range chunks {
		for _, sent := range segmenter.Sentences(c.Text) {
			flat = append(flat, teamSentence{text: sent, chunk: i})
		}
	}
	return flat
}

// expandWindow joins the sentences from window positions before the chunk's
// first sentence to window positions after its last, clamped to the
// sequence bounds. The sequence spans the whole team, so the window may
// blend in sentences from adjacent chunks. Returns "" when the chunk
// contributed no sentences.
func expandWindow(flat []teamSentence, chunk, window int) string {
	first, last := -1, -1
	for i, s := range flat {
		if s.chunk != chunk {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	if first == -1 {
		return ""
	}

	start := first - window
	if start < 0 {
		start = 0
	}
	end := last + window + 1
	if end > len(flat) {
		end = len(flat)
	}

	parts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		parts = append(parts, flat[i].text)
	}
	return strings.Join(parts, " ")
}
