// Package codec converts between nested Go values and the element-only XML
// dialect spoken by the Silverpop XML API.
//
// Requests are built from Fields, an ordered list of name/value pairs, because
// the vendor schema is sensitive to the order of child elements. Responses are
// decoded into plain maps: a leaf element becomes a string, an element with
// children becomes a map[string]any, and sibling elements sharing a tag become
// a []any in document order.
package codec

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoRoot is returned by Decode when the payload has no root element.
var ErrNoRoot = errors.New("codec: document has no root element")

// Field is a single named child element.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered set of child elements. Values may be nil, scalars
// (strings, numbers, bools, fmt.Stringer), Fields, map[string]any,
// map[string]string, or slices of those; a slice is written as repeated
// elements carrying the field name.
type Fields []Field

// Add appends a field and returns the extended list.
func (f Fields) Add(name string, value any) Fields {
	return append(f, Field{Name: name, Value: value})
}

// Encode serializes root into XML bytes. No XML declaration is emitted.
func Encode(root Fields) ([]byte, error) {
	doc := etree.NewDocument()
	for _, field := range root {
		if err := appendField(&doc.Element, field.Name, field.Value); err != nil {
			return nil, err
		}
	}
	if doc.Root() == nil {
		return nil, ErrNoRoot
	}
	return doc.WriteToBytes()
}

func appendField(parent *etree.Element, name string, value any) error {
	if name == "" {
		return fmt.Errorf("codec: empty element name under <%s>", parent.Tag)
	}

	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if err := appendField(parent, name, item); err != nil {
				return err
			}
		}
		return nil
	case []Fields:
		for _, item := range v {
			if err := appendField(parent, name, item); err != nil {
				return err
			}
		}
		return nil
	case []map[string]any:
		for _, item := range v {
			if err := appendField(parent, name, item); err != nil {
				return err
			}
		}
		return nil
	case []map[string]string:
		for _, item := range v {
			if err := appendField(parent, name, item); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, item := range v {
			parent.CreateElement(name).SetText(item)
		}
		return nil
	}

	elem := parent.CreateElement(name)
	return setValue(elem, value)
}

func setValue(elem *etree.Element, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case Fields:
		for _, child := range v {
			if err := appendField(elem, child.Name, child.Value); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, key := range sortedKeys(v) {
			if err := appendField(elem, key, v[key]); err != nil {
				return err
			}
		}
		return nil
	case map[string]string:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			elem.CreateElement(key).SetText(v[key])
		}
		return nil
	case string:
		elem.SetText(v)
		return nil
	case fmt.Stringer:
		elem.SetText(v.String())
		return nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		elem.SetText(fmt.Sprint(v))
		return nil
	default:
		return fmt.Errorf("codec: unsupported value of type %T for <%s>", value, elem.Tag)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Decode parses XML bytes into a map holding a single entry keyed by the
// root element's tag. Namespace prefixes are dropped from tags and
// attributes are ignored.
func Decode(data []byte) (map[string]any, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("codec: parsing XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, ErrNoRoot
	}

	return map[string]any{root.Tag: decodeElement(root)}, nil
}

func decodeElement(elem *etree.Element) any {
	children := elem.ChildElements()
	if len(children) == 0 {
		return strings.TrimSpace(elem.Text())
	}

	out := make(map[string]any, len(children))
	for _, child := range children {
		value := decodeElement(child)
		existing, seen := out[child.Tag]
		if !seen {
			out[child.Tag] = value
			continue
		}
		if list, ok := existing.([]any); ok {
			out[child.Tag] = append(list, value)
		} else {
			out[child.Tag] = []any{existing, value}
		}
	}
	return out
}
