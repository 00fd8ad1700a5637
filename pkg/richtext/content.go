// Package richtext models message and note bodies that are either plain
// strings or structured documents, and flattens both to plain text.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Kind int

const (
	KindPlainText Kind = iota
	KindStructuredDoc
)

func (k Kind) String() string {
	if k == KindStructuredDoc {
		return "structured_doc"
	}
	return "plain_text"
}

// Content is either PlainText or StructuredDoc. The zero value is an empty
// plain text.
type Content struct {
	kind  Kind
	text  string
	doc   *Node
	parts bool
	raw   json.RawMessage
}

func PlainText(s string) Content {
	return Content{kind: KindPlainText, text: s}
}

// Document wraps a fragment tree.
func Document(doc *Node) Content {
	if doc == nil {
		return PlainText("")
	}
	return Content{kind: KindStructuredDoc, doc: doc}
}

// Parts builds a structured content from a list of message parts, the shape
// chat clients send for multi-part messages.
func Parts(parts ...Node) Content {
	return Content{kind: KindStructuredDoc, doc: &Node{Type: partsNodeType, Content: parts}, parts: true}
}

// Parse decodes a JSON string, an array of message parts or a document
// object (Tiptap or Lexical).
func Parse(data []byte) (Content, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return PlainText(""), nil
	}

	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Content{}, fmt.Errorf("failed to parse text content: %w", err)
		}
		return PlainText(s), nil

	case '[':
		var parts []Node
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return Content{}, fmt.Errorf("failed to parse content parts: %w", err)
		}
		c := Parts(parts...)
		c.raw = raw
		return c, nil

	case '{':
		var root lexicalRoot
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return Content{}, fmt.Errorf("failed to parse document: %w", err)
		}
		doc := root.Root
		if doc == nil {
			doc = &Node{}
			if err := json.Unmarshal(trimmed, doc); err != nil {
				return Content{}, fmt.Errorf("failed to parse document: %w", err)
			}
		}
		c := Document(doc)
		c.raw = raw
		return c, nil
	}

	return Content{}, fmt.Errorf("unsupported content shape")
}

// FromRaw is like Parse but treats anything that is not valid JSON content
// as plain text. Stored columns may hold either.
func FromRaw(data []byte) Content {
	c, err := Parse(data)
	if err != nil {
		return PlainText(string(data))
	}
	return c
}

// FromString parses a stored string column.
func FromString(s string) Content {
	return FromRaw([]byte(s))
}

func (c Content) Kind() Kind {
	return c.kind
}

// Text flattens the content to plain text.
func (c Content) Text() string {
	if c.kind == KindPlainText {
		return c.text
	}
	return extract(c.doc)
}

// FirstText returns the first text-bearing fragment: the whole string for
// plain text, the first non-empty text node for documents.
func (c Content) FirstText() string {
	if c.kind == KindPlainText {
		return c.text
	}
	return firstText(c.doc)
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.kind == KindPlainText {
		return json.Marshal(c.text)
	}
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	if c.parts {
		return json.Marshal(c.doc.Content)
	}
	return json.Marshal(c.doc)
}

func (c *Content) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
