package transindex

import "errors"

// ErrFindFail is returned by ExactLookup/DeleteMember when the value or
// target is not present in the index.
var ErrFindFail = errors.New("value not found")

// ErrDuplicate is returned by Add on a one-to-one index when the value is
// already bound to a different target.
var ErrDuplicate = errors.New("duplicate value in one-to-one index")

// ErrBufferFull is returned by PartialLookupBuffered when the caller's
// result buffer was exhausted before every candidate block was checked.
var ErrBufferFull = errors.New("result buffer full")
