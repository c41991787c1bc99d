package catalog

import (
	"strconv"

	"github.com/nilotpal-labs/ffcat/internal/bitmap"
	"github.com/nilotpal-labs/ffcat/internal/lookup"
	"github.com/nilotpal-labs/ffcat/internal/slab"
	"github.com/nilotpal-labs/ffcat/internal/transindex"
)

// FindChildrenViaFileName implements spec §4.E's cost-heuristic children
// lookup. It tries an exact match against the fn index first; if that
// chain is cheaper to walk than scanning parent's children, it does so
// (filtered to parent's own children); if not, it scans parent's children
// for names containing name. When name has no exact match, it uses the
// matrix-guided or plain linear substring scan, whichever the bitmap
// popcount heuristic favors.
func (db *Database) FindChildrenViaFileName(parent *Entry, name string) []*Entry {
	childCount := len(parent.Children)

	if chainLen, ok := db.fn.ChainLen(name); ok {
		if chainLen < childCount {
			var out []*Entry
			db.fn.Walk(name, func(e *Entry) {
				if e.Parent == parent {
					out = append(out, e)
				}
			})
			return out
		}
		return db.scanChildrenSubstring(parent, name)
	}

	mapBuf := bitmap.New(false, 0)
	mapResult := bitmap.New(false, 0)
	if err := db.fn.PartialLookupMapOnly(name, -1, -1, mapBuf, mapResult); err != nil {
		return db.scanChildrenSubstring(parent, name)
	}

	popcount := mapResult.NumberOfOnes()
	if popcount*db.fn.L1Size() > uint64(childCount) {
		return db.scanChildrenSubstring(parent, name)
	}

	buf := make([]*Entry, childCount+1)
	n, err := db.fn.PartialLookupBuffered(name, -1, -1, mapBuf, mapResult, buf)
	if err != nil {
		return db.scanChildrenSubstring(parent, name)
	}
	var out []*Entry
	for _, e := range buf[:n] {
		if e.Parent == parent {
			out = append(out, e)
		}
	}
	return out
}

func (db *Database) scanChildrenSubstring(parent *Entry, name string) []*Entry {
	var out []*Entry
	for _, c := range parent.Children {
		if containsSubstring(c.FileName, name) {
			out = append(out, c)
		}
	}
	return out
}

func containsSubstring(s, needle string) bool {
	if needle == "" {
		return true
	}
	if len(needle) > len(s) {
		return false
	}
	for i := 0; i+len(needle) <= len(s); i++ {
		if s[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// Criterion is one enabled attribute matcher for FindEntryInSubBranch.
type Criterion struct {
	// Name is one of "name", "tag", "f_size", "sha1f", "sha256f",
	// "sha512f", "sha1s", "sha256s", "sha512s". Value for "tag" is a raw,
	// unframed tag; criterionBitmap canonicalises it before matching.
	Name  string
	Value string
}

// FindEntryInSubBranch implements spec §4.E's multi-attribute scored match:
// for each enabled criterion, a partial/substring lookup against that
// criterion's translation index is run and the matching entries' slab slots
// are projected into a bitmap (§4.F L3); ScoreAccept (§4.F L4) then picks
// entries hit by at least round(scorePercent×len(criteria)/100) criteria.
// Only entries within root's branch (root itself or a descendant) are
// considered.
func (db *Database) FindEntryInSubBranch(root *Entry, criteria []Criterion, scorePercent float64) []*Entry {
	if len(criteria) == 0 {
		return nil
	}

	var perCriterion []*bitmap.Bitmap
	for _, c := range criteria {
		perCriterion = append(perCriterion, db.criterionBitmap(c))
	}

	threshold := lookup.Threshold(scorePercent, len(criteria))
	accepted := lookup.ScoreAccept(perCriterion, threshold)

	var out []*Entry
	for bit := accepted.FirstOne(0); bit >= 0; bit = accepted.FirstOne(uint64(bit) + 1) {
		e, ok := db.entryPool.Get(slab.SlotIndex(bit))
		if !ok {
			continue
		}
		if isWithinBranch(root, e) {
			out = append(out, e)
		}
	}
	return out
}

func (db *Database) criterionBitmap(c Criterion) *bitmap.Bitmap {
	out := bitmap.New(false, 0)
	switch c.Name {
	case "name":
		db.fn.WalkPartial(c.Value, -1, -1, func(e *Entry) { lookup.Project([]uint64{uint64(e.Slot())}, out) })
	case "tag":
		needle := transindex.CanonicalTag(c.Value)
		db.tag.WalkPartial(needle, -1, -1, func(e *Entry) { lookup.Project([]uint64{uint64(e.Slot())}, out) })
	case "f_size":
		db.size.WalkPartial(c.Value, -1, -1, func(fd *FileData) { lookup.Project([]uint64{uint64(fd.owner.Slot())}, out) })
	case "sha1f":
		db.fHash[ChecksumSHA1].WalkPartial(c.Value, -1, -1, func(fd *FileData) { lookup.Project([]uint64{uint64(fd.owner.Slot())}, out) })
	case "sha256f":
		db.fHash[ChecksumSHA256].WalkPartial(c.Value, -1, -1, func(fd *FileData) { lookup.Project([]uint64{uint64(fd.owner.Slot())}, out) })
	case "sha512f":
		db.fHash[ChecksumSHA512].WalkPartial(c.Value, -1, -1, func(fd *FileData) { lookup.Project([]uint64{uint64(fd.owner.Slot())}, out) })
	case "sha1s":
		db.sHash[ChecksumSHA1].WalkPartial(c.Value, -1, -1, func(s *Section) { lookup.Project([]uint64{uint64(s.owner.owner.Slot())}, out) })
	case "sha256s":
		db.sHash[ChecksumSHA256].WalkPartial(c.Value, -1, -1, func(s *Section) { lookup.Project([]uint64{uint64(s.owner.owner.Slot())}, out) })
	case "sha512s":
		db.sHash[ChecksumSHA512].WalkPartial(c.Value, -1, -1, func(s *Section) { lookup.Project([]uint64{uint64(s.owner.owner.Slot())}, out) })
	}
	return out
}

func isWithinBranch(root, e *Entry) bool {
	for cur := e; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}

// FormatSize renders a file size the way the f_size translation index keys
// it, so callers building Criterion{Name: "f_size"} don't have to guess the
// string form.
func FormatSize(size int64) string {
	return strconv.FormatInt(size, 10)
}
