package errors

// PersistError is a specialized error type for the binary persistence layer
// (spec §6/§4.G): save/load framing, version checks, and endian handling.
// It embeds baseError to inherit wrapping, code, and details, then adds the
// byte-offset/file context needed to pinpoint exactly where a load or save
// went wrong.
type PersistError struct {
	*baseError
	offset   int64  // Byte offset within the file where the problem happened.
	field    string // Name of the record field being read/written.
	fileName string // Name of the file involved.
	path     string // Path of the file involved.
}

// NewPersistError creates a new persistence-specific error.
func NewPersistError(err error, code Code, msg string) *PersistError {
	return &PersistError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while preserving the PersistError type.
func (pe *PersistError) WithMessage(msg string) *PersistError {
	pe.baseError.WithMessage(msg)
	return pe
}

// WithDetail adds contextual information while preserving the PersistError type.
func (pe *PersistError) WithDetail(key string, value any) *PersistError {
	pe.baseError.WithDetail(key, value)
	return pe
}

// WithOffset records the byte position where the error occurred.
func (pe *PersistError) WithOffset(offset int64) *PersistError {
	pe.offset = offset
	return pe
}

// WithField records which record field was being read or written.
func (pe *PersistError) WithField(field string) *PersistError {
	pe.field = field
	return pe
}

// WithFileName captures which file was being processed.
func (pe *PersistError) WithFileName(fileName string) *PersistError {
	pe.fileName = fileName
	return pe
}

// WithPath captures the full path of the file being processed.
func (pe *PersistError) WithPath(path string) *PersistError {
	pe.path = path
	return pe
}

// Offset returns the byte offset within the file where the error happened.
func (pe *PersistError) Offset() int64 { return pe.offset }

// Field returns the record field name involved in the error, if any.
func (pe *PersistError) Field() string { return pe.field }

// FileName returns the name of the file that was being processed.
func (pe *PersistError) FileName() string { return pe.fileName }

// Path returns the path of the file that was being processed.
func (pe *PersistError) Path() string { return pe.path }
