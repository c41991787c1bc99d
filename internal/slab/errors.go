package slab

import "errors"

// ErrIndexOutOfRange is wrapped into errors returned by Del when the given
// SlotIndex falls outside any allocated L1 block.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrFindFail is wrapped into errors returned by Del when the given
// SlotIndex addresses a slot that is already free.
var ErrFindFail = errors.New("slot not found")
