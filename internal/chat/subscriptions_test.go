package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_SubscribeIdempotent(t *testing.T) {
	tbl := NewTable()

	tbl.Subscribe("c1", 1)
	tbl.Subscribe("c1", 1)
	tbl.Subscribe("c2", 1)

	subs := tbl.SubscribersOf(1)
	assert.Len(t, subs, 2)
	assert.ElementsMatch(t, []string{"c1", "c2"}, subs)
	assert.Equal(t, 2, tbl.Count(1))
}

func TestTable_UnsubscribeAbsentIsNoop(t *testing.T) {
	tbl := NewTable()

	tbl.Unsubscribe("ghost", 42)
	assert.Empty(t, tbl.SubscribersOf(42))

	tbl.Subscribe("c1", 1)
	tbl.Unsubscribe("c1", 1)
	assert.Empty(t, tbl.SubscribersOf(1))
	assert.Zero(t, tbl.RoomCount(), "empty rooms must be cleaned up")
}

func TestTable_SnapshotIsolation(t *testing.T) {
	tbl := NewTable()
	tbl.Subscribe("c1", 1)

	snapshot := tbl.SubscribersOf(1)
	tbl.Subscribe("c2", 1)
	tbl.Unsubscribe("c1", 1)

	// Mutations after the call must not reach the snapshot.
	require.Len(t, snapshot, 1)
	assert.Equal(t, "c1", snapshot[0])
}

func TestTable_DropConnection(t *testing.T) {
	tbl := NewTable()
	tbl.Subscribe("c1", 1)
	tbl.Subscribe("c1", 2)
	tbl.Subscribe("c2", 2)

	affected := tbl.DropConnection("c1")
	assert.ElementsMatch(t, []int64{1, 2}, affected)

	assert.Empty(t, tbl.SubscribersOf(1))
	assert.ElementsMatch(t, []string{"c2"}, tbl.SubscribersOf(2))

	assert.Nil(t, tbl.DropConnection("c1"), "second drop must be a no-op")
}

func TestTable_DropRoom(t *testing.T) {
	tbl := NewTable()
	tbl.Subscribe("c1", 1)
	tbl.Subscribe("c2", 1)
	tbl.Subscribe("c2", 2)

	dropped := tbl.DropRoom(1)
	assert.ElementsMatch(t, []string{"c1", "c2"}, dropped)
	assert.Empty(t, tbl.SubscribersOf(1))
	assert.ElementsMatch(t, []string{"c2"}, tbl.SubscribersOf(2))
}

func TestTable_ConcurrentAccess(t *testing.T) {
	tbl := NewTable()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		connID := string(rune('a' + i%26))
		go func(id string) {
			defer wg.Done()
			tbl.Subscribe(id, 1)
			tbl.SubscribersOf(1)
			tbl.Unsubscribe(id, 1)
		}(connID)
		go func(id string) {
			defer wg.Done()
			tbl.Subscribe(id, 2)
			tbl.DropConnection(id)
		}(connID)
	}
	wg.Wait()
}
