package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHTTPCodes(t *testing.T) {
	in := `The API returns a status code (HTTP "Accepted") of value 202 on success.`
	out := NormalizeHTTPCodes(in)
	assert.Equal(t, `The API returns a 202 status code (HTTP "Accepted") on success.`, out)

	unchanged := "The API returns a 404 when the pod is missing."
	assert.Equal(t, unchanged, NormalizeHTTPCodes(unchanged))
}

func TestCleanWhitespace(t *testing.T) {
	in := "Pod\u200b networking\nuses   CNI\t plugins"
	assert.Equal(t, "Pod networking uses CNI plugins", CleanWhitespace(in))
}

func TestExactMatchTokens(t *testing.T) {
	tokens := ExactMatchTokens("Pod-networking uses kube.proxy, CNI_plugins (v1.2)!")
	assert.Equal(t, []string{"pod-networking", "uses", "kube.proxy", "cni_plugins", "v1.2"}, tokens)

	assert.Empty(t, ExactMatchTokens("!!! ???"))
}

func TestTokenSet(t *testing.T) {
	set := TokenSet([]string{"a", "b", "a"})
	assert.Len(t, set, 2)
	_, ok := set["a"]
	assert.True(t, ok)
}
