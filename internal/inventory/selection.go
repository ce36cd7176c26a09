package inventory

import (
	"encoding/json"
	"slices"
	"strings"
)

// ValidID reports whether id can identify an item. Stale client attributes
// show up as "", "null" or "undefined" and are never valid.
func ValidID(id string) bool {
	switch strings.TrimSpace(id) {
	case "", "null", "undefined":
		return false
	}
	return true
}

// FilterIDs drops invalid and duplicate ids, keeping first-seen order.
func FilterIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !ValidID(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// TriState is the derived state of the "select all" control.
type TriState string

const (
	Unchecked     TriState = "unchecked"
	Checked       TriState = "checked"
	Indeterminate TriState = "indeterminate"
)

// Selection is the set of item ids chosen for a bulk action.
// The zero value is an empty selection.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range FilterIDs(ids) {
		s.add(id)
	}
	return s
}

func (s *Selection) add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Toggle adds id if absent and removes it if present. Invalid ids are ignored.
func (s *Selection) Toggle(id string) {
	if !ValidID(id) {
		return
	}
	if s.Contains(id) {
		delete(s.ids, id)
		return
	}
	s.add(id)
}

// SelectAll selects exactly the visible ids, or clears the selection when
// every visible id is already selected.
func (s *Selection) SelectAll(visible []string) {
	if s.State(visible) == Checked {
		s.Clear()
		return
	}
	s.ids = nil
	for _, id := range FilterIDs(visible) {
		s.add(id)
	}
}

func (s *Selection) Clear() {
	s.ids = nil
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Empty() bool {
	return len(s.ids) == 0
}

// State derives the select-all control for the currently visible ids.
func (s *Selection) State(visible []string) TriState {
	if s.Empty() {
		return Unchecked
	}
	visible = FilterIDs(visible)
	if len(visible) == 0 {
		return Indeterminate
	}
	for _, id := range visible {
		if !s.Contains(id) {
			return Indeterminate
		}
	}
	return Checked
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Submission returns the ids to send to a bulk operation. It re-applies
// ValidID instead of trusting how the set was built.
func (s *Selection) Submission() []string {
	return FilterIDs(s.IDs())
}

func (s *Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}
