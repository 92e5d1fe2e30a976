// Package xmlcodec converts nested mappings into XML request fragments
// and parses XML responses into a navigable tree.
package xmlcodec

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Encode serializes a nested mapping into an XML fragment. Map keys
// become element names; the caller guarantees they are valid names.
// A []any value is emitted as repeated elements named after its own key
// (so {"lines": {"line": [a, b]}} yields
// <lines><line>a</line><line>b</line></lines>). Scalar values are
// entity-escaped. Sibling elements are written in sorted key order so
// request bodies are reproducible.
func Encode(m map[string]any) string {
	var b strings.Builder
	encodeMap(&b, m)
	return b.String()
}

func encodeMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		encodeValue(b, k, m[k])
	}
}

func encodeValue(b *strings.Builder, key string, v any) {
	switch val := v.(type) {
	case map[string]any:
		b.WriteString("<" + key + ">")
		encodeMap(b, val)
		b.WriteString("</" + key + ">")
	case []any:
		for _, item := range val {
			encodeValue(b, key, item)
		}
	default:
		b.WriteString("<" + key + ">")
		b.WriteString(escape(scalarString(v)))
		b.WriteString("</" + key + ">")
	}
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(v)
	}
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Decode parses an XML document into a Node tree. When lenient is true,
// malformed input yields an empty tree instead of an error; this mirrors
// the historical behavior of treating any unparseable response as an
// empty document, and it silently masks protocol errors, so strict mode
// is the default elsewhere.
func Decode(text string, lenient bool) (*Node, error) {
	root, err := parse(strings.NewReader(text))
	if err != nil {
		if lenient {
			return &Node{}, nil
		}
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	return root, nil
}

func parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	root := &Node{}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].Text += string(t)
		}
	}

	// a document has one element; collapse the synthetic root around it
	if len(root.Children) == 1 {
		return root.Children[0], nil
	}
	return root, nil
}
