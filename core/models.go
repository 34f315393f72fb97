package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// RootTitle is the title of the implicit root node of every document tree.
const RootTitle = "Root"

// PathSeparator joins ancestor headings into a breadcrumb path.
const PathSeparator = " > "

// DocumentTree is a parsed document's heading hierarchy. Nodes live in a
// flat arena addressed by index; Nodes[0] is always the implicit root at
// level 0. Children reference their parent's arena by index, so the tree
// carries no pointers and is safe to build in parallel with other trees.
type DocumentTree struct {
	Nodes []DocumentNode
}

// DocumentNode is one heading of a document together with the raw lines
// that appeared under it before the next heading.
type DocumentNode struct {
	Title    string
	Level    int
	Content  []string
	Children []int
}

// NewDocumentTree creates a tree holding only the implicit root node.
func NewDocumentTree() *DocumentTree {
	return &DocumentTree{
		Nodes: []DocumentNode{{Title: RootTitle, Level: 0}},
	}
}

// AddNode appends a node to the arena as a child of parent and returns its
// index.
func (t *DocumentTree) AddNode(parent int, title string, level int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, DocumentNode{Title: title, Level: level})
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}

// Root returns the index of the implicit root node.
func (t *DocumentTree) Root() int { return 0 }

// ParsedDocument bundles a structured tree with its owning team and the
// source file it was parsed from.
type ParsedDocument struct {
	Tree   *DocumentTree
	Team   string
	Source string
}

// Chunk is a merged group of consecutive sentences treated as one
// retrievable unit. Chunks are created once during ingestion and are
// immutable afterwards.
type Chunk struct {
	// Path is the breadcrumb of ancestor headings joined by PathSeparator,
	// root excluded.
	Path string
	// Text is the merged sentence group.
	Text string
	// Team is the organizational owner of the source document.
	Team string
	// Source is the path of the document the chunk came from.
	Source string
}

// TeamScore is a per-query routing candidate. Confidence is a 5-100
// normalized score expressing relative certainty, not a probability.
type TeamScore struct {
	Team       string  `json:"team"`
	Confidence float64 `json:"confidence"`
}

// SearchResult is one ranked passage of a routing decision.
type SearchResult struct {
	Path string `json:"path"`
	Team string `json:"team"`
	// Text is the window-expanded passage, which may include trailing or
	// leading sentences from adjacent chunks.
	Text              string  `json:"text"`
	Score             float64 `json:"score"`
	BoostContribution float64 `json:"boost_contribution"`
}

// RoutingDecision is the full response to one query: the auto-assignment
// decision, candidate teams ranked by confidence, and the best supporting
// passages.
type RoutingDecision struct {
	AutoAssign bool           `json:"auto_assign"`
	Teams      []TeamScore    `json:"teams"`
	Results    []SearchResult `json:"results"`
}

// CorpusFingerprint computes a deterministic digest over a team's chunks in
// order. It is persisted next to the team's index; a mismatch at load time
// forces a full rebuild of every team.
func CorpusFingerprint(chunks []Chunk) []byte {
	h, _ := blake2b.New(16, nil)
	var count [8]byte
	binary.LittleEndian.PutUint64(count[:], uint64(len(chunks)))
	h.Write(count[:])
	for _, c := range chunks {
		h.Write([]byte(c.Path))
		h.Write([]byte{0})
		h.Write([]byte(c.Text))
		h.Write([]byte{0})
		h.Write([]byte(c.Source))
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}

// JoinPath builds a breadcrumb path from ancestor titles.
func JoinPath(titles []string) string {
	return strings.Join(titles, PathSeparator)
}
