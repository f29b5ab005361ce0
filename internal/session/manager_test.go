package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file2md/backend/internal/models"
)

func newResult(name string) *models.ConversionResult {
	return &models.ConversionResult{
		SourceFilename: name,
		Extension:      "txt",
		Markdown:       "body of " + name,
		ConvertedAt:    time.Now().UTC(),
	}
}

func TestPutGet(t *testing.T) {
	m := NewManager(0)

	id := m.Put(newResult("a.txt"))
	require.NotEmpty(t, id)

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, got.ID, "Put must stamp the run ID onto the result")
	assert.Equal(t, "a.txt", got.SourceFilename)
}

func TestGet_UnknownID(t *testing.T) {
	m := NewManager(0)

	_, ok := m.Get("no-such-id")
	assert.False(t, ok)
}

func TestPut_AssignsUniqueIDs(t *testing.T) {
	m := NewManager(0)

	a := m.Put(newResult("a.txt"))
	b := m.Put(newResult("b.txt"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, m.Len())
}

func TestDelete(t *testing.T) {
	m := NewManager(0)
	id := m.Put(newResult("a.txt"))

	m.Delete(id)
	_, ok := m.Get(id)
	assert.False(t, ok)

	// unknown IDs are a no-op
	m.Delete("no-such-id")
}

func TestGet_ExpiredResult(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	id := m.Put(newResult("a.txt"))

	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(id)
	assert.False(t, ok, "expired results must not be retrievable")
}

func TestCleanupExpired(t *testing.T) {
	m := NewManager(10 * time.Millisecond)
	m.Put(newResult("old.txt"))
	m.Put(newResult("older.txt"))

	time.Sleep(30 * time.Millisecond)
	fresh := m.Put(newResult("fresh.txt"))

	removed := m.CleanupExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, m.Len())

	_, ok := m.Get(fresh)
	assert.True(t, ok)
}

func TestPut_EvictsOldestAtCapacity(t *testing.T) {
	m := NewManager(time.Hour)

	var first string
	for i := 0; i < MaxResults; i++ {
		id := m.Put(newResult(fmt.Sprintf("f%03d.txt", i)))
		if i == 0 {
			first = id
		}
		// storedAt has nanosecond resolution but keep ordering unambiguous
		time.Sleep(time.Microsecond)
	}
	require.Equal(t, MaxResults, m.Len())

	last := m.Put(newResult("overflow.txt"))
	assert.Equal(t, MaxResults, m.Len(), "store must never exceed its cap")

	_, ok := m.Get(first)
	assert.False(t, ok, "oldest result should have been evicted")
	_, ok = m.Get(last)
	assert.True(t, ok)
}
