package errors

// IndexError provides specialized error handling for translation-index
// operations (spec §4.D): exact/partial lookup, add, and delete-of-member
// against one of the per-attribute indices (eid, fn, tag, size, the six
// hash families).
type IndexError struct {
	*baseError

	// attribute identifies which translation index family was involved
	// (e.g. "fn", "sha256f", "f_size").
	attribute string

	// value is the textual value that was being looked up or inserted.
	value string

	// operation describes what was being performed ("ExactLookup",
	// "PartialLookup", "Add", "DeleteMember", ...).
	operation string

	// size captures the index's member/entry count at the time of the
	// error, useful for diagnosing capacity-related failures.
	size int
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code Code, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithDetail adds contextual information while preserving the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithAttribute records which attribute's translation index was involved.
func (ie *IndexError) WithAttribute(attribute string) *IndexError {
	ie.attribute = attribute
	return ie
}

// WithValue records the value being looked up or inserted.
func (ie *IndexError) WithValue(value string) *IndexError {
	ie.value = value
	return ie
}

// WithOperation records which index operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithSize records the index's size at the time of the error.
func (ie *IndexError) WithSize(size int) *IndexError {
	ie.size = size
	return ie
}

// Attribute returns the attribute name associated with the error.
func (ie *IndexError) Attribute() string { return ie.attribute }

// Value returns the value that was being processed.
func (ie *IndexError) Value() string { return ie.value }

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string { return ie.operation }

// Size returns the index size recorded at the time of the error.
func (ie *IndexError) Size() int { return ie.size }

// NewFindFailError builds the FindFail error for a failed exact lookup.
func NewFindFailError(attribute, value string) *IndexError {
	return NewIndexError(nil, CodeFindFail, "value not found in translation index").
		WithAttribute(attribute).
		WithValue(value).
		WithOperation("ExactLookup")
}

// NewBufferFullError builds the BufferFull error for a partial lookup whose
// caller-provided result buffer was exhausted before all matches were collected.
func NewBufferFullError(attribute, needle string, collected int) *IndexError {
	return NewIndexError(nil, CodeBufferFull, "result buffer exhausted during partial lookup").
		WithAttribute(attribute).
		WithValue(needle).
		WithOperation("PartialLookupBuffered").
		WithDetail("collected", collected)
}
