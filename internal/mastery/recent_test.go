package mastery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecentEvictsOldest(t *testing.T) {
	r := NewRecent(3, nil)
	for _, id := range []string{"a", "b", "c", "d"} {
		r.Push(id)
	}
	assert.Equal(t, []string{"b", "c", "d"}, r.IDs())
	assert.False(t, r.Contains("a"))
	assert.True(t, r.Contains("d"))
}

func TestNewRecentKeepsNewest(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	r := NewRecent(RecentCapacity, ids)
	assert.Equal(t, RecentCapacity, r.Len())
	assert.Equal(t, ids[2:], r.IDs())
}

func TestRecentClear(t *testing.T) {
	r := NewRecent(0, []string{"x"})
	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.IDs())
}
