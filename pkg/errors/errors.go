// Package errors implements the structured error taxonomy surfaced by the
// catalog engine (spec §7). Every concrete error type embeds a common
// baseError so callers get error wrapping, a programmatic Code, and a
// details map for free, while still carrying domain-specific context:
// CatalogError knows which entry and structural invariant failed,
// PersistError knows which file/offset/field the save or load was on, and
// IndexError knows which translation-index attribute and value were
// involved.
//
// Propagation follows spec §7: primitives return errors to callers without
// auto-unwinding partial index links; callers invoke VerifyEntry after a
// mutation and delete-on-failure if desired. Load reports the first failure
// and aborts; save skips failing subtrees and continues, logging a warning.
package errors

import (
	stdErrors "errors"
)

// IsCatalogError reports whether err is a CatalogError or wraps one.
func IsCatalogError(err error) bool {
	var ce *CatalogError
	return stdErrors.As(err, &ce)
}

// IsPersistError reports whether err is a PersistError or wraps one.
func IsPersistError(err error) bool {
	var pe *PersistError
	return stdErrors.As(err, &pe)
}

// IsIndexError reports whether err is an IndexError or wraps one.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// AsCatalogError extracts a CatalogError from an error chain.
func AsCatalogError(err error) (*CatalogError, bool) {
	var ce *CatalogError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsPersistError extracts a PersistError from an error chain.
func AsPersistError(err error) (*PersistError, bool) {
	var pe *PersistError
	if stdErrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsIndexError extracts an IndexError from an error chain.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetCode extracts the error code from any error that supports it, or
// returns CodeLogicError for errors that don't carry one of our codes.
func GetCode(err error) Code {
	if ce, ok := AsCatalogError(err); ok {
		return ce.Code()
	}
	if pe, ok := AsPersistError(err); ok {
		return pe.Code()
	}
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}
	return CodeLogicError
}

// GetDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetDetails(err error) map[string]any {
	if ce, ok := AsCatalogError(err); ok {
		if d := ce.Details(); d != nil {
			return d
		}
	}
	if pe, ok := AsPersistError(err); ok {
		if d := pe.Details(); d != nil {
			return d
		}
	}
	if ie, ok := AsIndexError(err); ok {
		if d := ie.Details(); d != nil {
			return d
		}
	}
	return make(map[string]any)
}
