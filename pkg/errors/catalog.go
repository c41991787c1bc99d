package errors

// CatalogError is a specialized error type for entity-graph operations
// (spec §3, §4.E): VerifyEntry invariant checks, entry creation/mutation,
// and CopyEntry. It embeds baseError to inherit wrapping, code and details,
// then adds the entry/attribute context needed to identify exactly which
// entity and structural rule was involved.
type CatalogError struct {
	*baseError

	// entryID is the hex entry id (or empty) of the entry being processed.
	entryID string

	// field names the struct field or chain that failed (e.g. "file_name",
	// "tag_str", "section[2].extract[0]").
	field string

	// subCode narrows VerifyFail failures to one of the §7 sub-codes.
	subCode VerifySubCode
}

// NewCatalogError creates a new catalog-specific error with the provided context.
func NewCatalogError(err error, code Code, msg string) *CatalogError {
	return &CatalogError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the CatalogError type.
func (ce *CatalogError) WithMessage(msg string) *CatalogError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithDetail adds contextual information while preserving the CatalogError type.
func (ce *CatalogError) WithDetail(key string, value any) *CatalogError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithEntryID records which entry was being processed.
func (ce *CatalogError) WithEntryID(id string) *CatalogError {
	ce.entryID = id
	return ce
}

// WithField records which field or chain failed.
func (ce *CatalogError) WithField(field string) *CatalogError {
	ce.field = field
	return ce
}

// WithSubCode narrows a VerifyFail to one of the §7 sub-codes.
func (ce *CatalogError) WithSubCode(sub VerifySubCode) *CatalogError {
	ce.subCode = sub
	return ce
}

// EntryID returns the entry id associated with the error.
func (ce *CatalogError) EntryID() string { return ce.entryID }

// Field returns the field or chain name that failed.
func (ce *CatalogError) Field() string { return ce.field }

// SubCode returns the VerifyFail sub-code, if any.
func (ce *CatalogError) SubCode() VerifySubCode { return ce.subCode }

// NewVerifyFailError builds a VerifyFail error for the given entry, field
// and §7 sub-code.
func NewVerifyFailError(entryID, field string, sub VerifySubCode) *CatalogError {
	return NewCatalogError(nil, CodeVerifyFail, "entry failed structural verification").
		WithEntryID(entryID).
		WithField(field).
		WithSubCode(sub)
}

// NewGenIDFailError builds the GenIdFail error raised when CopyEntry
// exhausts its collision-retry budget while minting a fresh entry id.
func NewGenIDFailError(attempts int) *CatalogError {
	return NewCatalogError(nil, CodeGenIdFail, "exhausted retries generating a unique entry id").
		WithDetail("attempts", attempts)
}

// NewLogicError builds the LogicError kind for internal invariant breaches
// that are fatal to the current operation (spec §7).
func NewLogicError(msg string) *CatalogError {
	return NewCatalogError(nil, CodeLogicError, msg)
}
