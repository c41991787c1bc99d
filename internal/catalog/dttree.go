package catalog

import (
	"time"

	"github.com/nilotpal-labs/ffcat/internal/transindex"
)

// timeLinkOps extends transindex.LinkOps with a time accessor, since the
// date-time tree has to compare candidates by minute to keep each hour
// bucket's chain sorted (spec §3 "minute-sorted").
type timeLinkOps struct {
	transindex.LinkOps[*Entry]
	GetTime func(e *Entry) time.Time
}

func todLinkOps() timeLinkOps {
	return timeLinkOps{
		LinkOps: transindex.LinkOps[*Entry]{
			GetPrev: func(e *Entry) *Entry { return e.prevTOD },
			SetPrev: func(e, p *Entry) { e.prevTOD = p },
			GetNext: func(e *Entry) *Entry { return e.nextTOD },
			SetNext: func(e, n *Entry) { e.nextTOD = n },
			IsNil:   func(e *Entry) bool { return e == nil },
		},
		GetTime: func(e *Entry) time.Time { return *e.TOD },
	}
}

func tomLinkOps() timeLinkOps {
	return timeLinkOps{
		LinkOps: transindex.LinkOps[*Entry]{
			GetPrev: func(e *Entry) *Entry { return e.prevTOM },
			SetPrev: func(e, p *Entry) { e.prevTOM = p },
			GetNext: func(e *Entry) *Entry { return e.nextTOM },
			SetNext: func(e, n *Entry) { e.nextTOM = n },
			IsNil:   func(e *Entry) bool { return e == nil },
		},
		GetTime: func(e *Entry) time.Time { return *e.TOM },
	}
}

func tusrLinkOps() timeLinkOps {
	return timeLinkOps{
		LinkOps: transindex.LinkOps[*Entry]{
			GetPrev: func(e *Entry) *Entry { return e.prevTUsr },
			SetPrev: func(e, p *Entry) { e.prevTUsr = p },
			GetNext: func(e *Entry) *Entry { return e.nextTUsr },
			SetNext: func(e, n *Entry) { e.nextTUsr = n },
			IsNil:   func(e *Entry) bool { return e == nil },
		},
		GetTime: func(e *Entry) time.Time { return *e.TUsr },
	}
}

// hourBucket is the head of a minute-sorted doubly-linked chain of entries
// that share the same (year, month, day, hour).
type hourBucket struct {
	head *Entry
}

type dayNode struct {
	hours [24]*hourBucket
}

type monthNode struct {
	days [32]*dayNode // index 1..31; index 0 unused
}

type yearNode struct {
	year   int
	months [12]*monthNode
	next   *yearNode
}

// dtTree is a singly-linked list of year nodes, per time kind (spec §3
// "Date-time tree"). tom is recorded on the entry but, per the original
// design, was never threaded through this structure; this implementation
// resolves that open question by giving tom its own dtTree with full
// link/unlink symmetry (see DESIGN.md).
type dtTree struct {
	head *yearNode
}

func newDTTree() *dtTree { return &dtTree{} }

func (t *dtTree) findOrCreateYear(year int) *yearNode {
	var prev *yearNode
	for n := t.head; n != nil; n = n.next {
		if n.year == year {
			return n
		}
		if n.year > year {
			break
		}
		prev = n
	}
	node := &yearNode{year: year}
	if prev == nil {
		node.next = t.head
		t.head = node
	} else {
		node.next = prev.next
		prev.next = node
	}
	return node
}

func (t *dtTree) findYear(year int) *yearNode {
	for n := t.head; n != nil; n = n.next {
		if n.year == year {
			return n
		}
	}
	return nil
}

func bucketFor(year *yearNode, ts time.Time, create bool) *hourBucket {
	mIdx := int(ts.Month()) - 1
	month := year.months[mIdx]
	if month == nil {
		if !create {
			return nil
		}
		month = &monthNode{}
		year.months[mIdx] = month
	}

	day := month.days[ts.Day()]
	if day == nil {
		if !create {
			return nil
		}
		day = &dayNode{}
		month.days[ts.Day()] = day
	}

	hour := day.hours[ts.Hour()]
	if hour == nil {
		if !create {
			return nil
		}
		hour = &hourBucket{}
		day.hours[ts.Hour()] = hour
	}
	return hour
}

// insert links target into the tree bucket for ts, keeping the bucket's
// chain sorted ascending by minute.
func (t *dtTree) insert(ts time.Time, target *Entry, ops timeLinkOps) {
	year := t.findOrCreateYear(ts.Year())
	bucket := bucketFor(year, ts, true)

	if bucket.head == nil {
		bucket.head = target
		return
	}

	var prev *Entry
	cur := bucket.head
	for cur != nil && ops.GetTime(cur).Minute() <= ts.Minute() {
		prev = cur
		cur = ops.GetNext(cur)
	}

	if prev == nil {
		ops.SetNext(target, bucket.head)
		ops.SetPrev(bucket.head, target)
		bucket.head = target
		return
	}

	ops.SetNext(prev, target)
	ops.SetPrev(target, prev)
	ops.SetNext(target, cur)
	if cur != nil {
		ops.SetPrev(cur, target)
	}
}

// remove unlinks target from the tree bucket for ts.
func (t *dtTree) remove(ts time.Time, target *Entry, ops timeLinkOps) {
	year := t.findYear(ts.Year())
	if year == nil {
		return
	}
	bucket := bucketFor(year, ts, false)
	if bucket == nil {
		return
	}

	prev := ops.GetPrev(target)
	next := ops.GetNext(target)
	if prev != nil {
		ops.SetNext(prev, next)
	} else if bucket.head == target {
		bucket.head = next
	}
	if next != nil {
		ops.SetPrev(next, prev)
	}
	ops.SetPrev(target, nil)
	ops.SetNext(target, nil)
}
