// Package content holds the page-body building blocks: typed content nodes,
// link entries, and the ordered list container both are edited through.
//
// Every type here is a value. Operations return updated copies and never
// mutate a backing array another list might share.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by index-based edits outside [0, Len).
var ErrIndexOutOfRange = errors.New("index out of range")

// Direction is the way MoveAdjacent shifts an item.
type Direction int

const (
	// Up moves an item toward index 0.
	Up Direction = iota
	// Down moves an item toward the end of the list.
	Down
)

// String returns "up" or "down".
func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ParseDirection maps "up"/"down" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Up, fmt.Errorf("unknown direction %q", s)
	}
}

// List is an ordered sequence of T. Order is display order.
// The zero value is an empty list ready to use.
type List[T any] struct {
	items []T
}

// NewList builds a list holding a copy of items.
func NewList[T any](items ...T) List[T] {
	return List[T]{items: clone(items)}
}

func clone[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Len returns the number of items.
func (l List[T]) Len() int { return len(l.items) }

// IsEmpty reports whether the list has no items.
func (l List[T]) IsEmpty() bool { return len(l.items) == 0 }

// At returns the item at i and whether i was valid.
func (l List[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Items returns a copy of the items in order.
func (l List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds item to the end.
func (l List[T]) Append(item T) List[T] {
	out := make([]T, len(l.items), len(l.items)+1)
	copy(out, l.items)
	return List[T]{items: append(out, item)}
}

// RemoveAt excises the item at i, keeping the rest in order.
func (l List[T]) RemoveAt(i int) (List[T], error) {
	if i < 0 || i >= len(l.items) {
		return l, fmt.Errorf("remove at %d (len %d): %w", i, len(l.items), ErrIndexOutOfRange)
	}
	out := make([]T, 0, len(l.items)-1)
	out = append(out, l.items[:i]...)
	out = append(out, l.items[i+1:]...)
	return List[T]{items: out}, nil
}

// Set replaces the item at i.
func (l List[T]) Set(i int, item T) (List[T], error) {
	if i < 0 || i >= len(l.items) {
		return l, fmt.Errorf("set at %d (len %d): %w", i, len(l.items), ErrIndexOutOfRange)
	}
	out := clone(l.items)
	out[i] = item
	return List[T]{items: out}, nil
}

// MoveAdjacent swaps the item at i with its neighbor in direction dir.
// Moving the first item up, the last item down, or an index that is not
// in the list returns l unchanged.
func (l List[T]) MoveAdjacent(i int, dir Direction) List[T] {
	if !l.CanMove(i, dir) {
		return l
	}
	j := neighbor(i, dir)
	out := clone(l.items)
	out[i], out[j] = out[j], out[i]
	return List[T]{items: out}
}

// CanMove reports whether MoveAdjacent(i, dir) would change the order.
func (l List[T]) CanMove(i int, dir Direction) bool {
	j := neighbor(i, dir)
	return i >= 0 && i < len(l.items) && j >= 0 && j < len(l.items)
}

func neighbor(i int, dir Direction) int {
	if dir == Down {
		return i + 1
	}
	return i - 1
}

// Equal reports whether a and b hold equal items in the same order.
func Equal[T comparable](a, b List[T]) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if a.items[i] != b.items[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the list as a JSON array; an empty list is [].
func (l List[T]) MarshalJSON() ([]byte, error) {
	if len(l.items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// UnmarshalJSON decodes a JSON array. null decodes to an empty list.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	l.items = items
	return nil
}

// ToJSON returns the JSON text of the list.
func (l List[T]) ToJSON() (string, error) {
	b, err := l.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListFromJSON decodes s into a list. Empty input, null, malformed JSON,
// and anything that is not an array all yield an empty list.
func ListFromJSON[T any](s string) List[T] {
	if s == "" {
		return List[T]{}
	}
	var l List[T]
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return List[T]{}
	}
	return l
}
