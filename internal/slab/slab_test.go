package slab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddGetDel(t *testing.T) {
	p := New[int](4)

	v, slot := p.Add()
	*v = 42
	require.EqualValues(t, 1, p.Len())

	got, ok := p.Get(slot)
	require.True(t, ok)
	require.Equal(t, 42, *got)

	require.NoError(t, p.Del(slot))
	require.EqualValues(t, 0, p.Len())

	_, ok = p.Get(slot)
	require.False(t, ok)
}

func TestDelUnknownSlot(t *testing.T) {
	p := New[int](4)
	require.ErrorIs(t, p.Del(SlotIndex(1000)), ErrIndexOutOfRange)
}

func TestDelAlreadyFree(t *testing.T) {
	p := New[int](4)
	_, slot := p.Add()
	require.NoError(t, p.Del(slot))
	require.ErrorIs(t, p.Del(slot), ErrFindFail)
}

func TestGrowsAcrossL1Blocks(t *testing.T) {
	p := New[int](2)
	slots := make([]SlotIndex, 0, 5)
	for i := 0; i < 5; i++ {
		v, slot := p.Add()
		*v = i
		slots = append(slots, slot)
	}

	require.EqualValues(t, 5, p.Len())
	require.EqualValues(t, 3, p.L2Len(), "5 slots at L1Size=2 should span 3 blocks")

	for i, slot := range slots {
		v, ok := p.Get(slot)
		require.True(t, ok)
		require.Equal(t, i, *v)
	}
}

func TestFreedSlotIsReused(t *testing.T) {
	p := New[int](2)
	_, slotA := p.Add()
	_, slotB := p.Add()
	require.NoError(t, p.Del(slotA))

	_, slotC := p.Add()
	require.Equal(t, slotA, slotC, "freeing the only hole in a block should make Add reuse it")
	_ = slotB
}
