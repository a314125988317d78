package mastery

// RecentCapacity is how many served items are remembered per learner
const RecentCapacity = 10

// Recent is a bounded FIFO of recently served item ids, oldest first
type Recent struct {
	ids      []string
	capacity int
}

// NewRecent builds a history seeded with ids. Only the newest capacity ids are kept.
func NewRecent(capacity int, ids []string) *Recent {
	if capacity <= 0 {
		capacity = RecentCapacity
	}
	r := &Recent{capacity: capacity, ids: make([]string, 0, capacity)}
	for _, id := range ids {
		r.Push(id)
	}
	return r
}

// Push appends id, evicting the oldest entry when full
func (r *Recent) Push(id string) {
	if len(r.ids) == r.capacity {
		copy(r.ids, r.ids[1:])
		r.ids = r.ids[:len(r.ids)-1]
	}
	r.ids = append(r.ids, id)
}

// Contains reports whether id was served recently
func (r *Recent) Contains(id string) bool {
	for _, v := range r.ids {
		if v == id {
			return true
		}
	}
	return false
}

func (r *Recent) Clear() {
	r.ids = r.ids[:0]
}

func (r *Recent) Len() int {
	return len(r.ids)
}

// IDs returns a copy of the history, oldest first
func (r *Recent) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}
