package catalog

import (
	"strings"

	"github.com/nilotpal-labs/ffcat/pkg/errors"
	"github.com/nilotpal-labs/ffcat/pkg/options"
)

// VerifyFlags tunes VerifyEntry for contexts other than steady-state
// checking, e.g. mid-load verification before every index is populated.
type VerifyFlags struct {
	// AllowNullChildPtr permits an entry to be verified while some of its
	// children are still mid-load/unlinked (spec §4.E state machine note).
	AllowNullChildPtr bool
}

// VerifyEntry enforces every invariant from spec §3 on e, returning a
// CatalogError identifying the first violation found.
func (db *Database) VerifyEntry(e *Entry, flags VerifyFlags) error {
	if e.ID.IsZero() && e != db.root {
		return errors.NewVerifyFailError(eidHex(e.ID), "id", errors.SubMissingHead).
			WithMessage("entry id must be non-zero")
	}

	if len(e.FileName) < 1 || len(e.FileName) > db.opts.FileNameMax {
		return errors.NewVerifyFailError(eidHex(e.ID), "file_name", errors.SubWrongStrLen).
			WithMessage("file_name length out of range")
	}
	if strings.IndexByte(e.FileName, 0) >= 0 {
		return errors.NewVerifyFailError(eidHex(e.ID), "file_name", errors.SubStrNotTerminated).
			WithMessage("file_name must not embed a NUL byte")
	}

	if e.TagStr != "" {
		if err := verifyTagFraming(e.ID, e.TagStr, db.opts); err != nil {
			return err
		}
	}

	if e.Parent != nil {
		wantDepth := e.Parent.Depth + 1
		if e.Depth != wantDepth {
			return errors.NewVerifyFailError(eidHex(e.ID), "depth", errors.SubWrongForwardStat).
				WithMessage("depth inconsistent with parent")
		}
		wantHasParent := e.Parent != db.root
		if e.HasParent != wantHasParent {
			return errors.NewVerifyFailError(eidHex(e.ID), "has_parent", errors.SubWrongForwardStat).
				WithMessage("has_parent inconsistent with parent")
		}
		if wantHasParent && e.BranchID != e.Parent.BranchID {
			return errors.NewVerifyFailError(eidHex(e.ID), "branch_id", errors.SubWrongForwardStat).
				WithMessage("branch_id must propagate from parent")
		}
	}

	if !flags.AllowNullChildPtr {
		for _, c := range e.Children {
			if c == nil {
				return errors.NewVerifyFailError(eidHex(e.ID), "children", errors.SubMissingHead).
					WithMessage("nil child pointer outside load")
			}
		}
	}

	if e.FileData != nil {
		if err := db.verifyFileData(e, e.FileData); err != nil {
			return err
		}
	}

	return nil
}

func verifyTagFraming(id EID, tagStr string, opts *options.Options) error {
	if len(tagStr) > opts.TagStrMax {
		return errors.NewVerifyFailError(eidHex(id), "tag_str", errors.SubWrongStrLen).
			WithMessage("tag_str exceeds TagStrMax")
	}
	if len(tagStr) < 3 || tagStr[0] != '|' || tagStr[len(tagStr)-1] != '|' {
		return errors.NewVerifyFailError(eidHex(id), "tag_str", errors.SubMissingHead).
			WithMessage("tag_str must be framed with |...|")
	}

	tags := splitFramedTags(tagStr)
	if len(tags) > opts.TagMaxNum {
		return errors.NewVerifyFailError(eidHex(id), "tag_count", errors.SubWrongForwardStat).
			WithMessage("tag count exceeds TagMaxNum")
	}
	for _, tag := range tags {
		if len(tag)+2 > opts.TagLenMax {
			return errors.NewVerifyFailError(eidHex(id), "tag", errors.SubWrongStrLen).
				WithMessage("tag exceeds TagLenMax")
		}
	}
	return nil
}

// splitFramedTags splits a "|t1|t2|" framed tag_str into its individual
// tags, unescaping "\|" back to a literal "|" within each tag. tagStr is
// assumed to already be fence-checked by the caller.
func splitFramedTags(tagStr string) []string {
	var tags []string
	var cur strings.Builder
	for i := 1; i < len(tagStr)-1; i++ {
		c := tagStr[i]
		if c == '\\' && i+1 < len(tagStr)-1 {
			cur.WriteByte(tagStr[i+1])
			i++
			continue
		}
		if c == '|' {
			tags = append(tags, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	tags = append(tags, cur.String())
	return tags
}

func (db *Database) verifyFileData(e *Entry, fd *FileData) error {
	if fd.FileSize < 0 || fd.FileSize > db.opts.FileSizeMax {
		return errors.NewVerifyFailError(eidHex(e.ID), "file_size", errors.SubWrongForwardStat).
			WithMessage("file_size out of range")
	}

	for _, ex := range fd.Extracts {
		if ex.Position < 0 || ex.Position+int64(len(ex.Data)) > fd.FileSize {
			return errors.NewVerifyFailError(eidHex(e.ID), "extract", errors.SubWrongForwardStat).
				WithMessage("extract not contained within file")
		}
		if len(ex.Data) > db.opts.ExtractSizeMax {
			return errors.NewVerifyFailError(eidHex(e.ID), "extract", errors.SubWrongStrLen).
				WithMessage("extract exceeds ExtractSizeMax")
		}
	}
	if len(fd.Extracts) > db.opts.ExtractMaxNum {
		return errors.NewVerifyFailError(eidHex(e.ID), "extract_count", errors.SubWrongForwardStat).
			WithMessage("extract count exceeds ExtractMaxNum")
	}

	switch len(fd.Sections) {
	case 0:
		if fd.NormSectSize != 0 || fd.LastSectSize != 0 {
			return errors.NewVerifyFailError(eidHex(e.ID), "sections", errors.SubWrongForwardStat).
				WithMessage("zero sections requires both section sizes zero")
		}
	case 1:
		if fd.LastSectSize != fd.NormSectSize {
			return errors.NewVerifyFailError(eidHex(e.ID), "sections", errors.SubWrongForwardStat).
				WithMessage("single section requires last_sect_size == norm_sect_size")
		}
	default:
		if fd.LastSectSize > fd.NormSectSize {
			return errors.NewVerifyFailError(eidHex(e.ID), "sections", errors.SubWrongForwardStat).
				WithMessage("last_sect_size must not exceed norm_sect_size")
		}
	}

	var prevEnd int64 = -1
	for _, s := range fd.Sections {
		if s.Start >= s.End || s.End >= fd.FileSize {
			return errors.NewVerifyFailError(eidHex(e.ID), "section", errors.SubWrongForwardStat).
				WithMessage("section bounds invalid")
		}
		if fd.NormSectSize > 0 && s.Start < prevEnd {
			return errors.NewVerifyFailError(eidHex(e.ID), "section", errors.SubWrongForwardStat).
				WithMessage("sections must be non-overlapping and increasing")
		}
		prevEnd = s.End

		for _, ex := range s.Extracts {
			if ex.Position < s.Start || ex.Position+int64(len(ex.Data)) > s.End {
				return errors.NewVerifyFailError(eidHex(e.ID), "section_extract", errors.SubWrongForwardStat).
					WithMessage("section extract not contained within section")
			}
		}
	}

	return nil
}
