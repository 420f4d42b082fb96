package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHeap_OrdersByTimestamp(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(NewFlushEvent(30))
	h.Schedule(NewFlushEvent(10))
	h.Schedule(NewFlushEvent(20))

	var got []int64
	for h.Len() > 0 {
		got = append(got, h.PopNext().Timestamp())
	}

	assert.Equal(t, []int64{10, 20, 30}, got)
}

func TestEventHeap_SimultaneousEvents_TypePriorityBreaksTie(t *testing.T) {
	h := NewEventHeap()
	// scheduled in reverse priority order, all at tick 5
	h.Schedule(NewFlushEvent(5))
	h.Schedule(NewPopulateEvent(5))
	h.Schedule(NewDynamicCacheEvent(5, true))

	var got []EventType
	for h.Len() > 0 {
		got = append(got, h.PopNext().Type())
	}

	assert.Equal(t, []EventType{EventTypeDynamicCache, EventTypePopulate, EventTypeFlush}, got)
}

func TestEventHeap_SameTypeAndTick_CreationOrderWins(t *testing.T) {
	h := NewEventHeap()
	first := NewPopulateEvent(5)
	second := NewPopulateEvent(5)
	// heap insertion order must not matter, only the event ID does
	h.Schedule(second)
	h.Schedule(first)

	got := h.PopNext()
	require.NotNil(t, got)
	assert.Equal(t, first.EventID(), got.EventID())
}

func TestEventHeap_PeekDoesNotRemove(t *testing.T) {
	h := NewEventHeap()
	assert.Nil(t, h.Peek())
	assert.Nil(t, h.PopNext())

	ev := NewFlushEvent(1)
	h.Schedule(ev)

	assert.Equal(t, ev.EventID(), h.Peek().EventID())
	assert.Equal(t, 1, h.Len())
}
