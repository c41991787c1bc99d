package existmatrix

import "errors"

// ErrBoundsInconsistent is returned by PartialMap when the effective start
// bounds can't fit the needle length against the matrix's max length.
var ErrBoundsInconsistent = errors.New("existmatrix: start bounds inconsistent with needle length")
