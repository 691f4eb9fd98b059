package entities

import "sort"

// Selection is the set of tables chosen by the player.
type Selection struct {
	keys map[int]struct{}
}

// NewSelection creates a selection holding the given values.
func NewSelection(values ...int) *Selection {
	s := &Selection{keys: make(map[int]struct{}, len(values))}
	for _, v := range values {
		s.keys[v] = struct{}{}
	}
	return s
}

// Toggle adds value if absent and removes it if present.
func (s *Selection) Toggle(value int) {
	if _, ok := s.keys[value]; ok {
		delete(s.keys, value)
		return
	}
	s.keys[value] = struct{}{}
}

// Has reports whether value is selected.
func (s *Selection) Has(value int) bool {
	_, ok := s.keys[value]
	return ok
}

// Remove deletes value from the selection.
func (s *Selection) Remove(value int) {
	delete(s.keys, value)
}

func (s *Selection) IsEmpty() bool {
	return len(s.keys) == 0
}

func (s *Selection) Len() int {
	return len(s.keys)
}

// Keys returns the selected values in ascending order.
func (s *Selection) Keys() []int {
	out := make([]int, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// First returns the smallest selected value.
func (s *Selection) First() (int, bool) {
	keys := s.Keys()
	if len(keys) == 0 {
		return 0, false
	}
	return keys[0], true
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	return NewSelection(s.Keys()...)
}

// Clear removes every value.
func (s *Selection) Clear() {
	s.keys = make(map[int]struct{})
}
