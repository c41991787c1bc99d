// Package existmatrix implements the positional substring index the spec
// calls the existence matrix (§4.C): for an attribute with values up to
// MaxLen bytes, position p keeps a small list of (byte, L1-block bitmap)
// pairs recording which L1 blocks of the owning pool hold a value with that
// byte at that position. Partial-map queries use this to narrow a substring
// search down to a handful of candidate blocks without scanning every value.
package existmatrix

import (
	"github.com/nilotpal-labs/ffcat/internal/bitmap"
)

// charNode is one (character, L1-block bitmap) entry in a position's list.
type charNode struct {
	char   byte
	blocks *bitmap.Bitmap
	next   *charNode
}

// Matrix is the per-attribute existence matrix over string values.
type Matrix struct {
	positions []*charNode // one singly-linked list per position
	maxLength int         // highest value length ever Added, may shrink on Delete
	l1Size    uint64
}

// New creates a Matrix seeded for values up to maxLen bytes long, over a
// pool whose L1 blocks hold l1Size slots each.
func New(maxLen int, l1Size uint64) *Matrix {
	if maxLen < 0 {
		maxLen = 0
	}
	return &Matrix{
		positions: make([]*charNode, maxLen),
		l1Size:    l1Size,
	}
}

// MaxLength returns the current maximum indexed value length.
func (m *Matrix) MaxLength() int { return m.maxLength }

// ensurePositions grows the positions slice to cover index p.
func (m *Matrix) ensurePositions(p int) {
	if p < len(m.positions) {
		return
	}
	grown := make([]*charNode, p+1)
	copy(grown, m.positions)
	m.positions = grown
}

func findOrInsertChar(head **charNode, c byte, blockCount uint64) *charNode {
	for cur := *head; cur != nil; cur = cur.next {
		if cur.char == c {
			if cur.blocks.Len() < blockCount {
				cur.blocks.Grow(blockCount)
			}
			return cur
		}
	}
	node := &charNode{char: c, blocks: bitmap.New(false, blockCount)}
	node.next = *head
	*head = node
	return node
}

// Add records that l1Index's block contains value s. l1Index is the L1
// block index within the owning pool, not a slot index.
func (m *Matrix) Add(s string, l1Index uint64) {
	m.ensurePositions(len(s) - 1)
	for p := 0; p < len(s); p++ {
		node := findOrInsertChar(&m.positions[p], s[p], l1Index+1)
		_ = node.blocks.Write(l1Index, true)
	}
	if len(s) > m.maxLength {
		m.maxLength = len(s)
	}
}

// RemainingPool is the minimal surface Delete needs from the owning slab
// pool: walk the live values that still occupy a given L1 block.
type RemainingPool interface {
	// ValuesInBlock returns the string values of every live member
	// currently occupying L1 block l1Index.
	ValuesInBlock(l1Index uint64) []string
}

// Delete removes value s's presence for l1Index, consulting pool to decide
// whether any other live member of the same block still has s[p] at
// position p. pool must reflect the state AFTER s's owning slot has already
// been freed/cleared.
func (m *Matrix) Delete(pool RemainingPool, s string, l1Index uint64) {
	remaining := pool.ValuesInBlock(l1Index)

	for p := 0; p < len(s); p++ {
		if p >= len(m.positions) {
			continue
		}

		stillPresent := false
		for _, other := range remaining {
			if p < len(other) && other[p] == s[p] {
				stillPresent = true
				break
			}
		}
		if stillPresent {
			continue
		}

		m.clearBit(p, s[p], l1Index)
	}

	if len(s) == m.maxLength {
		m.recomputeMaxLength()
	}
}

func (m *Matrix) clearBit(p int, c byte, l1Index uint64) {
	var prev *charNode
	cur := m.positions[p]
	for cur != nil {
		if cur.char == c {
			if l1Index < cur.blocks.Len() {
				_ = cur.blocks.Write(l1Index, false)
			}
			if cur.blocks.NumberOfOnes() == 0 {
				if prev == nil {
					m.positions[p] = cur.next
				} else {
					prev.next = cur.next
				}
			}
			return
		}
		prev = cur
		cur = cur.next
	}
}

// recomputeMaxLength scans positions downward from the old maximum for the
// first non-empty position list, per spec §4.C.
func (m *Matrix) recomputeMaxLength() {
	for p := len(m.positions) - 1; p >= 0; p-- {
		if m.positions[p] != nil {
			m.maxLength = p + 1
			return
		}
	}
	m.maxLength = 0
}

// nodeFor returns the charNode for byte c at position p, or nil.
func (m *Matrix) nodeFor(p int, c byte) *charNode {
	if p >= len(m.positions) {
		return nil
	}
	for cur := m.positions[p]; cur != nil; cur = cur.next {
		if cur.char == c {
			return cur
		}
	}
	return nil
}

// PartialMap implements the 4-step partial-map query from spec §4.C.
// mapBuf is scratch space reused across candidate starts; mapResult
// accumulates the union of surviving candidates' AND'd bitmaps.
func (m *Matrix) PartialMap(needle string, startMin, startMax int, mapBuf, mapResult *bitmap.Bitmap) error {
	needleLen := len(needle)
	if needleLen > m.maxLength {
		return nil
	}

	effMin := startMin
	if effMin < 0 {
		effMin = 0
	}
	effMax := startMax
	if effMax < 0 {
		effMax = m.maxLength - needleLen
	}
	if m.maxLength-effMin < needleLen || m.maxLength-effMax < needleLen {
		return ErrBoundsInconsistent
	}

	for start := effMin; start <= effMax; start++ {
		if !m.candidateSurvives(needle, start) {
			continue
		}
		m.andPositions(needle, start, mapBuf)
		bitmap.Or(mapResult, mapBuf, mapResult)
	}
	return nil
}

func (m *Matrix) candidateSurvives(needle string, start int) bool {
	for j := 0; j < len(needle); j++ {
		if m.nodeFor(start+j, needle[j]) == nil {
			return false
		}
	}
	return true
}

// andPositions ANDs together the per-position bitmaps for needle starting
// at start, writing the result into out.
func (m *Matrix) andPositions(needle string, start int, out *bitmap.Bitmap) {
	first := m.nodeFor(start, needle[0])
	out.Init(false, first.blocks.Len())
	bitmap.Copy(first.blocks, out)

	for j := 1; j < len(needle); j++ {
		node := m.nodeFor(start+j, needle[j])
		bitmap.And(out, node.blocks, out)
	}
}
