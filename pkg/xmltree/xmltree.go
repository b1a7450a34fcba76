// Package xmltree parses XML documents into a small, namespace-free element
// tree.
//
// BI tools export metadata as deeply nested XML where element order and
// attribute values carry meaning, and where the exact schema varies between
// product versions. Unmarshalling into fixed structs loses that shape, so
// callers that need to walk the document generically (such as the lineage
// builder) use [Element] instead.
//
// Namespace prefixes are dropped from element and attribute names and
// xmlns declarations are discarded, so `<t:relation xmlns:t="...">` is seen
// as `<relation>`. When a prefixed and an unprefixed attribute share a local
// name, the unprefixed value is kept.
//
// # Text
//
// [Element.Text] holds the character data that appears before the first
// child element, which is where inline SQL lives in datasource exports:
//
//	<relation name="Custom SQL Query" type="text">select * from orders</relation>
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/glow/pkg/errors"
)

// Element is a parsed XML element.
//
// Elements are plain values; nothing in this package mutates a tree after
// [Parse] returns, so a tree can be shared between goroutines for reading.
type Element struct {
	Tag      string            // local element name
	Attrs    map[string]string // local attribute name -> value (never nil)
	Children []*Element        // child elements in document order
	Text     string            // character data before the first child
}

// Parse reads a whole XML document from r and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "parse xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := newElement(t)
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New(errors.ErrCodeMalformedDocument, "multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			if len(cur.Children) == 0 {
				cur.Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedDocument, "document has no root element")
	}
	return root, nil
}

// ParseBytes is a convenience wrapper around [Parse].
func ParseBytes(data []byte) (*Element, error) {
	return Parse(bytes.NewReader(data))
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(s string) (*Element, error) {
	return Parse(strings.NewReader(s))
}

func newElement(t xml.StartElement) *Element {
	el := &Element{
		Tag:   t.Name.Local,
		Attrs: make(map[string]string, len(t.Attr)),
	}
	// Prefixed attributes first, so an unprefixed one with the same local
	// name wins regardless of order.
	for _, prefixed := range []bool{true, false} {
		for _, a := range t.Attr {
			if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" || (a.Name.Space != "") != prefixed {
				continue
			}
			el.Attrs[a.Name.Local] = a.Value
		}
	}
	return el
}

// Attr returns the value of the named attribute, or "" if it is absent.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// Lookup returns the value of the named attribute and whether it was present.
func (e *Element) Lookup(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Find returns the first direct child with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given tag in document order.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FindPath follows a slash separated list of tags, taking the first matching
// child at each step. FindPath("clause/expression") on a join relation
// returns its predicate. Returns nil as soon as a step has no match.
func (e *Element) FindPath(path string) *Element {
	cur := e
	for _, tag := range strings.Split(path, "/") {
		if tag == "" {
			continue
		}
		if cur = cur.Find(tag); cur == nil {
			return nil
		}
	}
	return cur
}

// Child returns the i-th child element.
func (e *Element) Child(i int) (*Element, bool) {
	if i < 0 || i >= len(e.Children) {
		return nil, false
	}
	return e.Children[i], true
}

// String renders a short description of the element for log messages,
// e.g. `<relation name="Orders" type="table">`.
func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("<" + e.Tag)
	for _, k := range []string{"name", "type", "op"} {
		if v, ok := e.Attrs[k]; ok {
			fmt.Fprintf(&b, " %s=%q", k, v)
		}
	}
	b.WriteString(">")
	return b.String()
}
