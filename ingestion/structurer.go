package ingestion

import (
	"regexp"
	"strings"

	"github.com/poiesic/ticketrouter/core"
)

var (
	dateLineRe      = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	headingPrefixRe = regexp.MustCompile(`^(\d+(\.\d+)*)`)
)

// HeadingLevel classifies a line. A heading starts with a dotted numeric
// prefix such as "2.3.1"; its level is the number of dotted segments.
// Returns 0 for non-headings: purely numeric lines, date-like lines and
// very short numeric-looking lines (stray page numbers and footers).
func HeadingLevel(line string) int {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0
	}
	if isAllDigits(trimmed) || dateLineRe.MatchString(trimmed) {
		return 0
	}

	m := headingPrefixRe.FindStringSubmatch(trimmed)
	if m == nil {
		return 0
	}
	if len(trimmed) <= 3 {
		return 0
	}
	return strings.Count(m[1], ".") + 1
}

// StructureDocument converts extracted page lines into a heading tree.
// Heading lines open a node at their level, popping the stack down to the
// enclosing level first; every other line is appended verbatim to the
// current node's content. Malformed structure never fails; worst case
// everything collapses into root content.
func StructureDocument(pages [][]string) *core.DocumentTree {
	tree := core.NewDocumentTree()
	stack := []int{tree.Root()}

	for _, page := range pages {
		for _, raw := range page {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			level := HeadingLevel(line)
			if level > 0 {
				for len(stack) > 1 && tree.Nodes[stack[len(stack)-1]].Level >= level {
					stack = stack[:len(stack)-1]
				}
				idx := tree.AddNode(stack[len(stack)-1], line, level)
				stack = append(stack, idx)
			} else {
				top := stack[len(stack)-1]
				tree.Nodes[top].Content = append(tree.Nodes[top].Content, line)
			}
		}
	}

	return tree
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
