package infodoc

// HistoryRecord is one visited location.
type HistoryRecord struct {
	Manual string `json:"manual"`
	Node   string `json:"node"`
	// Point is the saved reading position within the node.
	Point int `json:"point"`
}

// Ref returns the qualified node reference of the record.
func (r HistoryRecord) Ref() NodeRef {
	return NodeRef{Manual: r.Manual, Node: r.Node}
}

// History tracks the current location and the back and forward stacks of
// one navigation session. Index 0 of each stack is the most recent entry.
// The zero value is an empty history.
type History struct {
	// SkipIntermediate records internally chained navigations as a single
	// jump. Callers honour it through Snapshot and Restore.
	SkipIntermediate bool

	current *HistoryRecord
	back    []HistoryRecord
	forward []HistoryRecord
}

// Current returns the current location.
func (h *History) Current() (HistoryRecord, bool) {
	if h.current == nil {
		return HistoryRecord{}, false
	}
	return *h.current, true
}

// SetPoint updates the saved position of the current location.
func (h *History) SetPoint(point int) {
	if h.current != nil {
		h.current.Point = point
	}
}

// Visit makes rec the current location. The previous current location is
// pushed on the back stack and the forward stack is cleared.
func (h *History) Visit(rec HistoryRecord) {
	h.pushCurrent()
	h.forward = nil
	h.current = &rec
}

func (h *History) pushCurrent() {
	if h.current != nil {
		h.back = append([]HistoryRecord{*h.current}, h.back...)
	}
}

// Back moves to the most recent back stack entry and pushes the previous
// current location on the forward stack.
// Returns ENOHISTORY if the back stack is empty.
func (h *History) Back() (HistoryRecord, error) {
	if len(h.back) == 0 {
		return HistoryRecord{}, Errorf(ENOHISTORY, "This is the first node you looked at")
	}
	rec := h.back[0]
	h.back = h.back[1:]
	if h.current != nil {
		h.forward = append([]HistoryRecord{*h.current}, h.forward...)
	}
	h.current = &rec
	return rec, nil
}

// Forward moves to the most recent forward stack entry and pushes the
// previous current location on the back stack.
// Returns ENOHISTORY if the forward stack is empty.
func (h *History) Forward() (HistoryRecord, error) {
	if len(h.forward) == 0 {
		return HistoryRecord{}, Errorf(ENOHISTORY, "This is the last node you looked at")
	}
	rec := h.forward[0]
	h.forward = h.forward[1:]
	h.pushCurrent()
	h.current = &rec
	return rec, nil
}

// BackStack returns a copy of the back stack, most recent first.
func (h *History) BackStack() []HistoryRecord {
	return append([]HistoryRecord(nil), h.back...)
}

// ForwardStack returns a copy of the forward stack, most recent first.
func (h *History) ForwardStack() []HistoryRecord {
	return append([]HistoryRecord(nil), h.forward...)
}

// Records returns every distinct location in the history, oldest first,
// ending with the current location.
func (h *History) Records() []HistoryRecord {
	var recs []HistoryRecord
	seen := make(map[NodeRef]bool)
	add := func(r HistoryRecord) {
		if !seen[r.Ref()] {
			seen[r.Ref()] = true
			recs = append(recs, r)
		}
	}
	for i := len(h.back) - 1; i >= 0; i-- {
		add(h.back[i])
	}
	if h.current != nil {
		add(*h.current)
	}
	for _, r := range h.forward {
		add(r)
	}
	return recs
}

// HistorySnapshot is a saved copy of a History's state.
type HistorySnapshot struct {
	current *HistoryRecord
	back    []HistoryRecord
	forward []HistoryRecord
}

// Snapshot saves the history state so an internal chain of navigations can
// later be collapsed with Restore.
func (h *History) Snapshot() HistorySnapshot {
	s := HistorySnapshot{
		back:    h.BackStack(),
		forward: h.ForwardStack(),
	}
	if h.current != nil {
		cur := *h.current
		s.current = &cur
	}
	return s
}

// Restore resets the history to a snapshot.
func (h *History) Restore(s HistorySnapshot) {
	h.back = append([]HistoryRecord(nil), s.back...)
	h.forward = append([]HistoryRecord(nil), s.forward...)
	h.current = nil
	if s.current != nil {
		cur := *s.current
		h.current = &cur
	}
}
