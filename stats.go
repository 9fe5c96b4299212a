package structdiff

// Stats holds statistical metadata about a diff
type Stats struct {
	Left  int `json:"leftNodes"`  // count of nodes in the left tree
	Right int `json:"rightNodes"` // count of nodes in the right tree

	Added        int `json:"added,omitempty"`        // number of locations added
	Removed      int `json:"removed,omitempty"`      // number of locations removed
	Changed      int `json:"changed,omitempty"`      // number of values changed
	TypeChanged  int `json:"typeChanged,omitempty"`  // number of shape changes
	ArityChanged int `json:"arityChanged,omitempty"` // number of arity changes
}

// NodeChange returns a count of the shift between left & right trees
func (s Stats) NodeChange() int {
	return s.Right - s.Left
}

// Total is the number of edits the stats were calculated from
func (s Stats) Total() int {
	return s.Added + s.Removed + s.Changed + s.TypeChanged + s.ArityChanged
}

func (s *Stats) calc(left, right interface{}, edits Edits) {
	*s = Stats{
		Left:  countNodes(left),
		Right: countNodes(right),
	}
	for _, e := range edits {
		switch e.(type) {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Changed:
			s.Changed++
		case TypeChanged:
			s.TypeChanged++
		case ArityChanged:
			s.ArityChanged++
		}
	}
}

func countNodes(v interface{}) (n int) {
	Walk(v, func(Path, interface{}) bool {
		n++
		return true
	})
	return n
}
