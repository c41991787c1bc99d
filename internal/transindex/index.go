// Package transindex implements the translation index family (spec §4.D):
// a per-attribute index over string values backed by a slab pool of
// translation entries, a hash map keyed by the value string, and a
// positional existence matrix for substring queries.
//
// One generic Index[Target] body serves every concrete attribute the
// catalog indexes (entry id, file name, tag, size, the six checksum
// families), replacing the macro-generated near-identical C structures the
// original source used for each attribute (spec §9). One-to-one attributes
// (entry id) store a single Target per entry; one-to-many attributes (file
// name, tag, size, checksums) chain multiple Targets per value using the
// caller-supplied LinkOps.
package transindex

import (
	"fmt"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
	"github.com/nilotpal-labs/ffcat/internal/critsection"
	"github.com/nilotpal-labs/ffcat/internal/existmatrix"
	"github.com/nilotpal-labs/ffcat/internal/slab"
)

// LinkOps gives the index the capability to thread Target values into a
// doubly-linked chain, without the index needing to know Target's layout.
// Implementations read/write the caller's own prev/next fields.
type LinkOps[Target any] struct {
	GetPrev func(t Target) Target
	SetPrev func(t, prev Target)
	GetNext func(t Target) Target
	SetNext func(t, next Target)
	// IsNil reports whether a Target handle is the zero/nil sentinel.
	IsNil func(t Target) bool
}

// entry is one translation-entry slab value: the indexed string plus either
// a single target (one-to-one) or a chain head/tail/count (one-to-many).
type entry[Target any] struct {
	str   string
	l1    uint64 // the L1 block index this entry's slot falls in
	slot  slab.SlotIndex
	one   Target // valid when the index is one-to-one
	head  Target
	tail  Target
	count int
}

// Index is a generic translation index over string-valued Target members.
type Index[Target any] struct {
	attribute string
	oneToMany bool
	link      LinkOps[Target]

	pool   *slab.Pool[entry[Target]]
	byStr  map[string]slab.SlotIndex
	matrix *existmatrix.Matrix
	guard  critsection.Guard
}

// NewOneToOne creates a unique-value index (e.g. entry id → entry).
func NewOneToOne[Target any](attribute string, l1Size uint64, maxLen int) *Index[Target] {
	return &Index[Target]{
		attribute: attribute,
		pool:      slab.New[entry[Target]](l1Size),
		byStr:     make(map[string]slab.SlotIndex),
		matrix:    existmatrix.New(maxLen, l1Size),
	}
}

// NewOneToMany creates a chained index (e.g. file name → entries) using the
// given LinkOps to thread members of a shared value together.
func NewOneToMany[Target any](attribute string, l1Size uint64, maxLen int, link LinkOps[Target]) *Index[Target] {
	idx := NewOneToOne[Target](attribute, l1Size, maxLen)
	idx.oneToMany = true
	idx.link = link
	return idx
}

// Attribute returns the index's attribute name, for error context.
func (idx *Index[Target]) Attribute() string { return idx.attribute }

// Len returns the number of distinct values currently indexed.
func (idx *Index[Target]) Len() int { return len(idx.byStr) }

// ChainLen returns the number of members chained under value, used by the
// children-lookup cost heuristic (spec §4.E) to decide whether walking the
// exact-match chain is cheaper than scanning the parent's children.
func (idx *Index[Target]) ChainLen(value string) (int, bool) {
	slot, ok := idx.byStr[value]
	if !ok {
		return 0, false
	}
	e, ok := idx.pool.Get(slot)
	if !ok {
		return 0, false
	}
	if !idx.oneToMany {
		return 1, true
	}
	return e.count, true
}

// Walk calls fn for every target currently chained under value, in chain
// (append) order. It is a no-op if value isn't indexed.
func (idx *Index[Target]) Walk(value string, fn func(Target)) {
	slot, ok := idx.byStr[value]
	if !ok {
		return
	}
	e, ok := idx.pool.Get(slot)
	if !ok {
		return
	}
	if !idx.oneToMany {
		fn(e.one)
		return
	}
	for cur := e.head; !idx.link.IsNil(cur); cur = idx.link.GetNext(cur) {
		fn(cur)
	}
}

// L2Len returns the pool's L2 length, the minimum scratch-bitmap size
// lookups against this index need (spec §4.F).
func (idx *Index[Target]) L2Len() uint64 { return idx.pool.L2Len() }

// L1Size returns the pool's fixed per-block slot capacity, the multiplicand
// the children-lookup cost heuristic (spec §4.E) weighs a partial-map
// popcount against.
func (idx *Index[Target]) L1Size() uint64 { return idx.pool.L1Size() }

// ValuesInBlock implements existmatrix.RemainingPool for this index's pool.
func (idx *Index[Target]) ValuesInBlock(l1Index uint64) []string {
	var out []string
	start := slab.SlotIndex(l1Index * idx.pool.L1Size())
	for i := uint64(0); i < idx.pool.L1Size(); i++ {
		v, ok := idx.pool.Get(start + slab.SlotIndex(i))
		if ok {
			out = append(out, v.str)
		}
	}
	return out
}

// ExactLookup returns the target(s) registered under value, or FindFail if
// absent. For a one-to-many index it returns the chain head; callers walk
// it via LinkOps.
func (idx *Index[Target]) ExactLookup(value string) (Target, error) {
	var zero Target
	slot, ok := idx.byStr[value]
	if !ok {
		return zero, fmt.Errorf("transindex[%s]: %w", idx.attribute, ErrFindFail)
	}
	e, ok := idx.pool.Get(slot)
	if !ok {
		return zero, fmt.Errorf("transindex[%s]: %w", idx.attribute, ErrFindFail)
	}
	if idx.oneToMany {
		return e.head, nil
	}
	return e.one, nil
}

// PartialLookupMapOnly returns the existence matrix's candidate-block
// bitmap for needle without verifying actual membership (spec §4.D).
func (idx *Index[Target]) PartialLookupMapOnly(needle string, startMin, startMax int, mapBuf, mapResult *bitmap.Bitmap) error {
	if mapBuf.Len() < idx.pool.L2Len() {
		mapBuf.Grow(idx.pool.L2Len())
	}
	if mapResult.Len() < idx.pool.L2Len() {
		mapResult.Grow(idx.pool.L2Len())
	}
	var err error
	idx.guard.Do(func() { err = idx.matrix.PartialMap(needle, startMin, startMax, mapBuf, mapResult) })
	return err
}

// PartialLookupBuffered walks the candidate blocks identified by the matrix
// and collects every member whose value actually contains needle as a
// substring within [startMin, startMax], up to len(buf) results. It returns
// the number of results written and BufferFull if buf was exhausted before
// every candidate was checked.
func (idx *Index[Target]) PartialLookupBuffered(needle string, startMin, startMax int, mapBuf, mapResult *bitmap.Bitmap, buf []Target) (int, error) {
	if err := idx.PartialLookupMapOnly(needle, startMin, startMax, mapBuf, mapResult); err != nil {
		return 0, err
	}

	n := 0
	for l1 := mapResult.FirstOne(0); l1 >= 0; l1 = mapResult.FirstOne(uint64(l1) + 1) {
		start := slab.SlotIndex(uint64(l1) * idx.pool.L1Size())
		for i := uint64(0); i < idx.pool.L1Size(); i++ {
			e, ok := idx.pool.Get(start + slab.SlotIndex(i))
			if !ok {
				continue
			}
			if !matchesSubstring(e.str, needle, startMin, startMax) {
				continue
			}
			if n >= len(buf) {
				return n, fmt.Errorf("transindex[%s]: %w", idx.attribute, ErrBufferFull)
			}
			target := e.one
			if idx.oneToMany {
				target = e.head
			}
			buf[n] = target
			n++
		}
	}
	return n, nil
}

// WalkPartial calls fn for every target whose indexed value contains needle
// as a substring within [startMin, startMax], using the existence matrix to
// narrow the scan to candidate L1 blocks (spec §4.D partial/substring
// lookup). Unlike PartialLookupBuffered it has no output-size cap.
func (idx *Index[Target]) WalkPartial(needle string, startMin, startMax int, fn func(Target)) error {
	mapBuf := bitmap.New(false, idx.pool.L2Len())
	mapResult := bitmap.New(false, idx.pool.L2Len())
	if err := idx.PartialLookupMapOnly(needle, startMin, startMax, mapBuf, mapResult); err != nil {
		return err
	}

	for l1 := mapResult.FirstOne(0); l1 >= 0; l1 = mapResult.FirstOne(uint64(l1) + 1) {
		start := slab.SlotIndex(uint64(l1) * idx.pool.L1Size())
		for i := uint64(0); i < idx.pool.L1Size(); i++ {
			e, ok := idx.pool.Get(start + slab.SlotIndex(i))
			if !ok {
				continue
			}
			if !matchesSubstring(e.str, needle, startMin, startMax) {
				continue
			}
			if idx.oneToMany {
				for cur := e.head; !idx.link.IsNil(cur); cur = idx.link.GetNext(cur) {
					fn(cur)
				}
			} else {
				fn(e.one)
			}
		}
	}
	return nil
}

func matchesSubstring(s, needle string, startMin, startMax int) bool {
	if len(needle) == 0 {
		return true
	}
	max := len(s) - len(needle)
	if max < 0 {
		return false
	}
	lo, hi := startMin, max
	if lo < 0 {
		lo = 0
	}
	if startMax >= 0 && startMax < hi {
		hi = startMax
	}
	for start := lo; start <= hi; start++ {
		if s[start:start+len(needle)] == needle {
			return true
		}
	}
	return false
}

// Add registers value under this index and links target into it. For a
// one-to-many index, target is appended at the chain tail; for a one-to-one
// index a pre-existing value is a DuplicateError.
func (idx *Index[Target]) Add(value string, target Target) error {
	if slot, ok := idx.byStr[value]; ok {
		if !idx.oneToMany {
			return fmt.Errorf("transindex[%s]: %w: %q", idx.attribute, ErrDuplicate, value)
		}
		e, _ := idx.pool.Get(slot)
		idx.appendChain(e, target)
		return nil
	}

	e, slot := idx.pool.Add()
	e.str = value
	e.slot = slot
	e.l1 = uint64(slot) / idx.pool.L1Size()

	idx.byStr[value] = slot
	idx.guard.Do(func() { idx.matrix.Add(value, e.l1) })

	if idx.oneToMany {
		idx.appendChain(e, target)
	} else {
		e.one = target
	}
	return nil
}

func (idx *Index[Target]) appendChain(e *entry[Target], target Target) {
	if idx.link.IsNil(e.tail) {
		e.head = target
		e.tail = target
	} else {
		idx.link.SetNext(e.tail, target)
		idx.link.SetPrev(target, e.tail)
		e.tail = target
	}
	e.count++
}

// DeleteMember detaches target from value's chain (or clears a one-to-one
// binding). When the chain becomes empty, the value is removed from the
// hash map, the matrix, and the pool slot is freed.
func (idx *Index[Target]) DeleteMember(value string, target Target) error {
	slot, ok := idx.byStr[value]
	if !ok {
		return fmt.Errorf("transindex[%s]: %w: %q", idx.attribute, ErrFindFail, value)
	}
	e, ok := idx.pool.Get(slot)
	if !ok {
		return fmt.Errorf("transindex[%s]: %w: %q", idx.attribute, ErrFindFail, value)
	}

	if !idx.oneToMany {
		e.one = target
		return idx.retireIfEmpty(value, slot, e, true)
	}

	idx.unlinkChainMember(e, target)
	return idx.retireIfEmpty(value, slot, e, e.count == 0)
}

func (idx *Index[Target]) unlinkChainMember(e *entry[Target], target Target) {
	prev := idx.link.GetPrev(target)
	next := idx.link.GetNext(target)

	if !idx.link.IsNil(prev) {
		idx.link.SetNext(prev, next)
	} else {
		e.head = next
	}
	if !idx.link.IsNil(next) {
		idx.link.SetPrev(next, prev)
	} else {
		e.tail = prev
	}
	idx.link.SetPrev(target, zeroOf[Target]())
	idx.link.SetNext(target, zeroOf[Target]())
	e.count--
}

func (idx *Index[Target]) retireIfEmpty(value string, slot slab.SlotIndex, e *entry[Target], empty bool) error {
	if !empty {
		return nil
	}
	l1 := e.l1 // Del zeroes *e in place, so the block index must be captured first
	delete(idx.byStr, value)
	if err := idx.pool.Del(slot); err != nil {
		return err
	}
	idx.guard.Do(func() { idx.matrix.Delete(idx, value, l1) })
	return nil
}

func zeroOf[T any]() T {
	var z T
	return z
}
