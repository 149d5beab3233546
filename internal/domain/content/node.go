package content

import (
	"bytes"
	"encoding/json"
)

// Kind identifies what a content node displays.
type Kind string

// Known node kinds.
const (
	KindHeading Kind = "heading"
	KindText    Kind = "text"
	KindImage   Kind = "image"
)

// Kinds lists the kinds an editor may create, in menu order.
func Kinds() []Kind {
	return []Kind{KindHeading, KindText, KindImage}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindHeading, KindText, KindImage:
		return true
	}
	return false
}

// Node is one block of page body content. Value is the heading text, the
// paragraph text, or the image URL depending on Kind.
//
// Nodes read from storage with a kind this build does not know are kept
// opaque: raw holds the original JSON and is written back unchanged, so a
// newer schema survives a round trip through an older editor.
type Node struct {
	kind  Kind
	value string
	raw   string
}

// NewNode returns an empty node of the given kind.
func NewNode(kind Kind) Node {
	return Node{kind: kind}
}

// Kind returns the node kind. For opaque nodes it is whatever "type" the
// stored JSON carried, possibly empty.
func (n Node) Kind() Kind { return n.kind }

// Value returns the editable value.
func (n Node) Value() string { return n.value }

// Known reports whether the node is one of the known kinds and editable.
func (n Node) Known() bool { return n.raw == "" && n.kind.Valid() }

// WithValue returns a copy of n holding v. Opaque nodes are returned
// unchanged.
func (n Node) WithValue(v string) Node {
	if !n.Known() {
		return n
	}
	n.value = v
	return n
}

type nodeJSON struct {
	Type  Kind   `json:"type"`
	Value string `json:"value"`
}

// MarshalJSON encodes {"type","value"}, or the original bytes for opaque nodes.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.raw != "" {
		return []byte(n.raw), nil
	}
	return json.Marshal(nodeJSON{Type: n.kind, Value: n.value})
}

// UnmarshalJSON decodes a stored node. It never fails on shape: anything
// that is not a well-formed known node is kept opaque.
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err == nil && in.Type.Valid() && onlyNodeFields(data) {
		*n = Node{kind: in.Type, value: in.Value}
		return nil
	}
	var probe struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(data, &probe)
	compact := new(bytes.Buffer)
	if err := json.Compact(compact, data); err != nil {
		return err
	}
	*n = Node{kind: Kind(probe.Type), raw: compact.String()}
	return nil
}

// onlyNodeFields reports whether data is an object whose keys are limited
// to type and value. Known kinds with extra fields stay opaque so the extra
// data is not dropped on save.
func onlyNodeFields(data []byte) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	for k := range fields {
		if k != "type" && k != "value" {
			return false
		}
	}
	return true
}

// Raw returns the stored JSON of an opaque node, or "" for known nodes.
func (n Node) Raw() string { return n.raw }

// NodeFromJSON decodes a single stored node, keeping unknown shapes opaque.
func NodeFromJSON(data []byte) (Node, error) {
	var n Node
	if err := n.UnmarshalJSON(data); err != nil {
		return Node{}, err
	}
	return n, nil
}
