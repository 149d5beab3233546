package content

import (
	"encoding/json"
	"testing"
)

func TestNewNode(t *testing.T) {
	for _, k := range Kinds() {
		n := NewNode(k)
		if n.Kind() != k {
			t.Errorf("NewNode(%s).Kind() = %s", k, n.Kind())
		}
		if n.Value() != "" {
			t.Errorf("NewNode(%s).Value() = %q, want empty", k, n.Value())
		}
		if !n.Known() {
			t.Errorf("NewNode(%s).Known() = false", k)
		}
	}
}

func TestNode_WithValueKeepsKind(t *testing.T) {
	n := NewNode(KindImage)
	updated := n.WithValue("https://cdn.example.com/beach.jpg")
	if updated.Kind() != KindImage {
		t.Errorf("Kind() = %s, want image", updated.Kind())
	}
	if updated.Value() != "https://cdn.example.com/beach.jpg" {
		t.Errorf("Value() = %q", updated.Value())
	}
	if n.Value() != "" {
		t.Errorf("original node changed: %q", n.Value())
	}
}

func TestNode_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewNode(KindHeading).WithValue("Welcome"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(b), `{"type":"heading","value":"Welcome"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

func TestNode_UnknownKindPreserved(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
	}{
		{"unknown type", `{"type":"video","value":"https://v.example.com/1","autoplay":true}`, "video"},
		{"known type with extra fields", `{"type":"image","value":"/a.jpg","alt":"Beach"}`, KindImage},
		{"missing type", `{"value":"orphan"}`, ""},
		{"non-string value", `{"type":"text","value":42}`, KindText},
		{"not an object", `"just text"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NodeFromJSON([]byte(tt.in))
			if err != nil {
				t.Fatalf("NodeFromJSON() error = %v", err)
			}
			if n.Known() {
				t.Error("Known() = true, want false")
			}
			if n.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", n.Kind(), tt.kind)
			}
			out, err := json.Marshal(n)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(out) != tt.in {
				t.Errorf("round trip = %s, want %s", out, tt.in)
			}
			if n.WithValue("changed") != n {
				t.Error("WithValue() changed an opaque node")
			}
		})
	}
}

func TestNode_ListWithMixedNodesRoundTrips(t *testing.T) {
	in := `[{"type":"heading","value":"Tours"},{"type":"carousel","value":"x"},{"type":"text","value":"Body"}]`
	l := ListFromJSON[Node](in)
	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
	out, err := l.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if out != in {
		t.Errorf("ToJSON() = %s, want %s", out, in)
	}
}
