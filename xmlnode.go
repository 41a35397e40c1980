package annvis

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XMLNode is a generic XML element: its tag, its trimmed character data and its child elements in
// document order. Attributes are not kept.
type XMLNode struct {
	Tag      string
	Text     string
	Children []*XMLNode
}

// IsLeaf reports whether the node has no child elements.
func (n *XMLNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the first child element with the given tag.
func (n *XMLNode) Child(tag string) (*XMLNode, bool) {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	return nil, false
}

// ChildText returns the text of the first child element with the given tag.
func (n *XMLNode) ChildText(tag string) (string, bool) {
	c, ok := n.Child(tag)
	if !ok {
		return "", false
	}
	return c.Text, true
}

// ChildrenByTag returns all child elements with the given tag, in document order.
func (n *XMLNode) ChildrenByTag(tag string) []*XMLNode {
	var children []*XMLNode
	for _, c := range n.Children {
		if c.Tag == tag {
			children = append(children, c)
		}
	}
	return children
}

// ParseXML reads a single XML document from r and returns its root element.
func ParseXML(r io.Reader) (*XMLNode, error) {
	dec := xml.NewDecoder(r)

	var root *XMLNode
	var stack []*XMLNode
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("multiple root elements: <%s> after <%s>", t.Name.Local, root.Tag)
			}
			n := &XMLNode{Tag: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			// The decoder verifies that start and end elements match.
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Tag)
	}

	return root, nil
}
