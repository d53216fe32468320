package ids

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

func TestNextIsStrictlyIncreasing(t *testing.T) {
	d := New()
	prev := d.Next()
	assert.Greater(t, prev, DefaultOffset)
	for range 100 {
		next := d.Next()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestIndependentDistributors(t *testing.T) {
	a := NewFrom(0)
	b := NewFrom(0)
	assert.Equal(t, int64(1), a.Next())
	assert.Equal(t, int64(2), a.Next())
	assert.Equal(t, int64(1), b.Next())
}

func TestConcurrentNextIsUnique(t *testing.T) {
	d := New()
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for range perWorker {
				local = append(local, d.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				seen[id] = true
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*perWorker)
}

func TestAssignIfMissing(t *testing.T) {
	d := NewFrom(100)

	fresh := model.NewNode(1, "fresh")
	d.AssignIfMissing(fresh)
	assert.Equal(t, int64(101), fresh.ID)

	d.AssignIfMissing(fresh)
	assert.Equal(t, int64(101), fresh.ID, "assignment is idempotent")

	existing := &model.Node{ID: 7}
	d.AssignIfMissing(existing)
	assert.Equal(t, int64(7), existing.ID)
}

func TestAssignIfMissingRecursesIntoSubItems(t *testing.T) {
	d := NewFrom(0)
	parent := model.NewNode(1, "parent")
	child := model.NewNode(2, "child")
	parent.AddChild(child)
	require.Equal(t, model.NoIdentifier, child.Parent)

	d.AssignAll([]model.Item{parent})

	assert.NotEqual(t, model.NoIdentifier, parent.ID)
	assert.NotEqual(t, model.NoIdentifier, child.ID)
	assert.NotEqual(t, parent.ID, child.ID)
	assert.Equal(t, parent.ID, child.Parent)
}
