package richtext

import "strings"

// extract walks the tree depth-first, concatenating text nodes and adding a
// space after each block that produced text. Top-level message parts count
// as blocks.
func extract(node *Node) string {
	if node == nil {
		return ""
	}

	var sb strings.Builder
	for _, child := range node.nodes() {
		if child.Type == "text" && child.Text != "" {
			sb.WriteString(child.Text)
		} else if len(child.nodes()) > 0 {
			sb.WriteString(extract(&child))
		}

		if (blockTypes[child.Type] || node.Type == partsNodeType) && sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String())
}

func firstText(node *Node) string {
	if node == nil {
		return ""
	}
	for _, child := range node.nodes() {
		if child.Type == "text" && child.Text != "" {
			return child.Text
		}
		if text := firstText(&child); text != "" {
			return text
		}
	}
	return ""
}
