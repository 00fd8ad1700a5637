package richtext

// Node represents any node in a rich-text tree.
// Tiptap/ProseMirror documents nest children under "content",
// Lexical documents nest them under "children". Both are accepted.
type Node struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Content  []Node `json:"content,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// lexicalRoot is the top-level structure written by the Lexical editor.
type lexicalRoot struct {
	Root *Node `json:"root"`
}

// nodes returns the node's children regardless of which editor produced it.
func (n *Node) nodes() []Node {
	if len(n.Children) == 0 {
		return n.Content
	}
	if len(n.Content) == 0 {
		return n.Children
	}
	all := make([]Node, 0, len(n.Content)+len(n.Children))
	all = append(all, n.Content...)
	return append(all, n.Children...)
}

const partsNodeType = "parts"

// Block types are separated by a single space when flattened to text.
var blockTypes = map[string]bool{
	"paragraph":   true,
	"heading":     true,
	"blockquote":  true,
	"quote":       true,
	"codeBlock":   true,
	"code":        true,
	"listItem":    true,
	"listitem":    true,
	"tableCell":   true,
	"tablecell":   true,
	"tableHeader": true,
}
