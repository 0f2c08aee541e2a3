package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomtalk/roomtalk-server/internal/store"
)

func seedMessages(t *testing.T, st *fakeStore, msgs ...store.Message) {
	t.Helper()
	for i := range msgs {
		require.NoError(t, st.InsertMessage(context.Background(), &msgs[i]))
	}
}

func TestRoomHistoryEmptyRoom(t *testing.T) {
	agg := NewHistoryAggregator(newFakeStore(), nopLogger())

	groups, err := agg.RoomHistory(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRoomHistoryGroupsIdenticalDates(t *testing.T) {
	st := newFakeStore()
	seedMessages(t, st,
		store.Message{Content: "first", From: "alice", To: "Room1", Time: "9:00", Date: "5/1/2024"},
		store.Message{Content: "second", From: "bob", To: "Room1", Time: "9:05", Date: "5/1/2024"},
		store.Message{Content: "elsewhere", From: "carol", To: "Room2", Time: "9:10", Date: "5/1/2024"},
	)
	agg := NewHistoryAggregator(st, nopLogger())

	groups, err := agg.RoomHistory(context.Background(), "Room1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "5/1/2024", groups[0].Date)
	require.Len(t, groups[0].Messages, 2)
	// Insertion order within the group.
	assert.Equal(t, "first", groups[0].Messages[0].Content)
	assert.Equal(t, "second", groups[0].Messages[1].Content)
}

func TestRoomHistoryRoundTripsAllFields(t *testing.T) {
	st := newFakeStore()
	seedMessages(t, st,
		store.Message{Content: "hi", From: "alice", To: "Room1", Time: "10:00", Date: "5/1/2024"},
	)
	agg := NewHistoryAggregator(st, nopLogger())

	groups, err := agg.RoomHistory(context.Background(), "Room1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Messages, 1)

	msg := groups[0].Messages[0]
	assert.Equal(t, "hi", msg.Content)
	assert.Equal(t, "alice", msg.From)
	assert.Equal(t, "Room1", msg.To)
	assert.Equal(t, "10:00", msg.Time)
	assert.Equal(t, "5/1/2024", msg.Date)
}

// Date keys are compared as unpadded strings, so the result is NOT
// chronological across differing digit counts. Clients rely on the
// exact ordering pinned here.
func TestRoomHistoryLexicographicDateOrder(t *testing.T) {
	st := newFakeStore()
	seedMessages(t, st,
		store.Message{Content: "a", From: "alice", To: "Family", Time: "1:00", Date: "10/2/2024"},
		store.Message{Content: "b", From: "alice", To: "Family", Time: "1:00", Date: "12/1/2023"},
		store.Message{Content: "c", From: "alice", To: "Family", Time: "1:00", Date: "1/1/2024"},
	)
	agg := NewHistoryAggregator(st, nopLogger())

	groups, err := agg.RoomHistory(context.Background(), "Family")
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// Keys: "2023121" < "2024102" < "202411". The October group sorts
	// before January of the same year because the keys are unpadded.
	assert.Equal(t, "12/1/2023", groups[0].Date)
	assert.Equal(t, "10/2/2024", groups[1].Date)
	assert.Equal(t, "1/1/2024", groups[2].Date)
}

func TestSortDateGroupsIdempotent(t *testing.T) {
	groups := []DateGroup{
		{Date: "10/2/2024"},
		{Date: "12/1/2023"},
		{Date: "1/1/2024"},
	}

	SortDateGroups(groups)
	once := make([]DateGroup, len(groups))
	copy(once, groups)

	SortDateGroups(groups)
	assert.Equal(t, once, groups)
}

func TestRoomHistorySkipsMalformedDates(t *testing.T) {
	st := newFakeStore()
	seedMessages(t, st,
		store.Message{Content: "good", From: "alice", To: "Room1", Time: "1:00", Date: "1/1/2024"},
		store.Message{Content: "bad", From: "bob", To: "Room1", Time: "1:00", Date: "yesterday"},
		store.Message{Content: "worse", From: "bob", To: "Room1", Time: "1:00", Date: "1/1/2024/extra"},
	)
	agg := NewHistoryAggregator(st, nopLogger())

	groups, err := agg.RoomHistory(context.Background(), "Room1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "1/1/2024", groups[0].Date)
}
