package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentences(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	t.Run("splits into sentences", func(t *testing.T) {
		sents := seg.Sentences("Pod networking uses CNI plugins. DNS resolution uses CoreDNS.")
		require.Len(t, sents, 2)
		assert.Equal(t, "Pod networking uses CNI plugins.", sents[0])
		assert.Equal(t, "DNS resolution uses CoreDNS.", sents[1])
	})

	t.Run("blank input", func(t *testing.T) {
		assert.Empty(t, seg.Sentences(""))
		assert.Empty(t, seg.Sentences("   \t "))
	})
}

func TestContentTokens(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	t.Run("filters stop words and punctuation", func(t *testing.T) {
		tokens := seg.ContentTokens("How do we restart the CNI plugin?")
		assert.Equal(t, []string{"restart", "cni", "plugin"}, tokens)
	})

	t.Run("lower-cases", func(t *testing.T) {
		tokens := seg.ContentTokens("CoreDNS Failure")
		assert.Equal(t, []string{"coredns", "failure"}, tokens)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, seg.ContentTokens(""))
	})
}
