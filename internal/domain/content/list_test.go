package content

import (
	"errors"
	"testing"
)

func abc() List[Link] {
	return NewList(
		Link{Label: "A", URL: "/a"},
		Link{Label: "B", URL: "/b"},
		Link{Label: "C", URL: "/c"},
	)
}

func labels(l List[Link]) string {
	s := ""
	for _, it := range l.Items() {
		s += it.Label
	}
	return s
}

func TestList_AppendThenRemoveLastIsIdentity(t *testing.T) {
	lists := []List[Link]{{}, NewList(Link{Label: "x"}), abc()}
	for _, l := range lists {
		appended := l.Append(Link{Label: "new", URL: "/new"})
		if appended.Len() != l.Len()+1 {
			t.Fatalf("Append() len = %d, want %d", appended.Len(), l.Len()+1)
		}
		back, err := appended.RemoveAt(l.Len())
		if err != nil {
			t.Fatalf("RemoveAt() error = %v", err)
		}
		if !Equal(back, l) {
			t.Errorf("append then remove-last = %v, want %v", back.Items(), l.Items())
		}
	}
}

func TestList_RemoveAt(t *testing.T) {
	l := abc()

	t.Run("middle", func(t *testing.T) {
		got, err := l.RemoveAt(1)
		if err != nil {
			t.Fatalf("RemoveAt(1) error = %v", err)
		}
		if labels(got) != "AC" {
			t.Errorf("RemoveAt(1) = %s, want AC", labels(got))
		}
		if labels(l) != "ABC" {
			t.Errorf("original mutated: %s", labels(l))
		}
	})

	for _, idx := range []int{-1, 3, 100} {
		if _, err := l.RemoveAt(idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d) error = %v, want ErrIndexOutOfRange", idx, err)
		}
	}

	var empty List[Link]
	if _, err := empty.RemoveAt(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveAt(0) on empty error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestList_MoveAdjacent(t *testing.T) {
	tests := []struct {
		name string
		idx  int
		dir  Direction
		want string
	}{
		{"last up", 2, Up, "ACB"},
		{"first down", 0, Down, "BAC"},
		{"first up is no-op", 0, Up, "ABC"},
		{"last down is no-op", 2, Down, "ABC"},
		{"negative index is no-op", -1, Down, "ABC"},
		{"past end is no-op", 7, Up, "ABC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := abc().MoveAdjacent(tt.idx, tt.dir)
			if labels(got) != tt.want {
				t.Errorf("MoveAdjacent(%d, %s) = %s, want %s", tt.idx, tt.dir, labels(got), tt.want)
			}
			if moved := tt.want != "ABC"; abc().CanMove(tt.idx, tt.dir) != moved {
				t.Errorf("CanMove(%d, %s) = %v, want %v", tt.idx, tt.dir, !moved, moved)
			}
		})
	}
}

func TestList_MoveUpThenDownIsIdentity(t *testing.T) {
	l := abc()
	for i := 1; i < l.Len(); i++ {
		got := l.MoveAdjacent(i, Up).MoveAdjacent(i-1, Down)
		if !Equal(got, l) {
			t.Errorf("i=%d: up then down = %s, want %s", i, labels(got), labels(l))
		}
	}
}

func TestList_MoveDoesNotAlias(t *testing.T) {
	l := abc()
	moved := l.MoveAdjacent(1, Up)
	if labels(l) != "ABC" {
		t.Errorf("original mutated by move: %s", labels(l))
	}
	if labels(moved) != "BAC" {
		t.Errorf("moved = %s, want BAC", labels(moved))
	}
	items := l.Items()
	items[0].Label = "Z"
	if labels(l) != "ABC" {
		t.Errorf("Items() exposed backing array: %s", labels(l))
	}
}

func TestList_Set(t *testing.T) {
	l := abc()
	got, err := l.Set(1, Link{Label: "X", URL: "/x"})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if labels(got) != "AXC" || labels(l) != "ABC" {
		t.Errorf("Set() = %s (orig %s), want AXC (orig ABC)", labels(got), labels(l))
	}
	if _, err := l.Set(3, Link{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Set(3) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestList_JSONRoundTrip(t *testing.T) {
	for _, l := range []List[Link]{{}, abc(), NewList(Link{})} {
		s, err := l.ToJSON()
		if err != nil {
			t.Fatalf("ToJSON() error = %v", err)
		}
		back := ListFromJSON[Link](s)
		if !Equal(back, l) {
			t.Errorf("round trip of %s = %v, want %v", s, back.Items(), l.Items())
		}
	}
}

func TestList_EmptyEncodesAsArray(t *testing.T) {
	var l List[Link]
	s, err := l.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if s != "[]" {
		t.Errorf("ToJSON() = %q, want []", s)
	}
}

func TestListFromJSON_Tolerant(t *testing.T) {
	inputs := []string{"", "null", "{not json", `{"label":"a"}`, `"text"`, `[{"label":1}]`}
	for _, in := range inputs {
		got := ListFromJSON[Link](in)
		if got.Len() != 0 {
			t.Errorf("ListFromJSON(%q) len = %d, want 0", in, got.Len())
		}
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("up"); err != nil || d != Up {
		t.Errorf("ParseDirection(up) = %v, %v", d, err)
	}
	if d, err := ParseDirection("down"); err != nil || d != Down {
		t.Errorf("ParseDirection(down) = %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(sideways) should fail")
	}
}
