package inventory

import "strings"

const listViewPrefix = "list-"

// State is one session's view of the inventory: which place or packing list is
// shown, the search query and the selection.
type State struct {
	ActiveView string     `json:"view"`
	Query      string     `json:"query"`
	Selection  *Selection `json:"selection"`
}

func NewState() *State {
	return &State{ActiveView: FilterAll, Selection: &Selection{}}
}

// Clone returns a copy that shares nothing with s.
func (s *State) Clone() *State {
	c := *s
	if s.Selection != nil {
		c.Selection = NewSelection(s.Selection.IDs()...)
	} else {
		c.Selection = &Selection{}
	}
	return &c
}

// SwitchView shows another place or packing list and starts a fresh selection.
func (s *State) SwitchView(view string) {
	if view == "" {
		view = FilterAll
	}
	s.ActiveView = view
	s.Query = ""
	s.Selection = &Selection{}
}

// SetQuery changes the search text. The selection is kept.
func (s *State) SetQuery(q string) {
	s.Query = q
}

// PackingListID reports the list shown when the view is in packing mode.
func (s *State) PackingListID() (string, bool) {
	id, ok := strings.CutPrefix(s.ActiveView, listViewPrefix)
	if !ok || !ValidID(id) {
		return "", false
	}
	return id, true
}

// PlaceFilter is the place filter for inventory mode.
func (s *State) PlaceFilter() string {
	if _, ok := s.PackingListID(); ok {
		return FilterAll
	}
	return s.ActiveView
}

// Forget falls back to "all" when view is the active one, for example after
// the place or list it names was deleted. It reports whether the view changed.
func (s *State) Forget(view string) bool {
	if s.ActiveView != view {
		return false
	}
	s.SwitchView(FilterAll)
	return true
}

func ListView(listID string) string {
	return listViewPrefix + listID
}
