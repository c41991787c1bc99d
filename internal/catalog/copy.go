package catalog

import (
	"crypto/rand"

	"github.com/nilotpal-labs/ffcat/pkg/errors"
)

// GenerateEID draws a cryptographically uniform entry id, retrying on
// collision (against exists) up to maxRetries times (spec §4.E, §9
// "Entropy" redesign: a CSPRNG id instead of the original's low-quality
// PRNG).
func GenerateEID(maxRetries int, exists func(EID) bool) (EID, error) {
	for i := 0; i < maxRetries; i++ {
		var id EID
		if _, err := rand.Read(id[:]); err != nil {
			continue
		}
		if id.IsZero() {
			continue
		}
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return EID{}, errors.NewGenIDFailError(maxRetries)
}

// CopyEntry duplicates src under destParent with a freshly generated id,
// copying scalar fields, file-data and sections, and optionally recursing
// into children (spec §4.E "Copy entry"). The copy is linked into every
// applicable index and verified before being returned.
func (db *Database) CopyEntry(src, destParent *Entry, recurseChildren bool) (*Entry, error) {
	id, err := db.newUniqueEID()
	if err != nil {
		return nil, err
	}

	dst, err := db.CreateEntry(destParent, id, src.Type, src.Created)
	if err != nil {
		return nil, err
	}

	dst.FileName = src.FileName
	dst.TagStr = src.TagStr
	dst.UserMsg = src.UserMsg
	dst.TOD = copyTimePtr(src.TOD)
	dst.TOM = copyTimePtr(src.TOM)
	dst.TUsr = copyTimePtr(src.TUsr)

	if src.FileData != nil {
		db.copyFileData(src.FileData, dst)
	}

	if err := db.LinkEntry(dst); err != nil {
		return nil, err
	}
	if dst.FileData != nil {
		if err := db.LinkFileData(dst.FileData); err != nil {
			return nil, err
		}
		for _, s := range dst.FileData.Sections {
			if err := db.LinkSection(s); err != nil {
				return nil, err
			}
		}
	}

	if recurseChildren {
		for _, c := range src.Children {
			if _, err := db.CopyEntry(c, dst, true); err != nil {
				return nil, err
			}
		}
	}

	if err := db.VerifyEntry(dst, VerifyFlags{}); err != nil {
		return nil, err
	}
	return dst, nil
}

func (db *Database) newUniqueEID() (EID, error) {
	return GenerateEID(db.opts.GenIDRetries, func(id EID) bool {
		_, err := db.eid.ExactLookup(eidHex(id))
		return err == nil
	})
}

func copyTimePtr[T any](t *T) *T {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (db *Database) copyFileData(src *FileData, dst *Entry) {
	fd := db.AttachFileData(dst)
	fd.FileSize = src.FileSize
	fd.NormSectSize = src.NormSectSize
	fd.LastSectSize = src.LastSectSize
	fd.Checksum = src.Checksum
	fd.Extracts = append([]Extract(nil), src.Extracts...)

	for _, s := range src.Sections {
		ns := db.AttachSection(fd)
		ns.Start = s.Start
		ns.End = s.End
		ns.Checksum = s.Checksum
		ns.Extracts = append([]Extract(nil), s.Extracts...)
	}
}
