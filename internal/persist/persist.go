// Package persist implements the catalog engine's binary file format (spec
// §4.G, §6): a big-endian, preamble/trailer-framed stream of entry records
// with a field-presence bitmap selecting which optional blocks follow each
// one. Save performs a DFS traversal-linkage pass before streaming so
// entries are written parent-before-child; Load reconstructs parenting from
// each record's parent_entry_id and links every entry into the catalog's
// indices as it is read.
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/nilotpal-labs/ffcat/internal/catalog"
	"github.com/nilotpal-labs/ffcat/pkg/errors"
	"go.uber.org/zap"
)

// Version is the on-disk format version stamped into every saved file.
const Version = "00.01"

// preamble is the 15-byte framing sequence written before the header and
// after the last entry record.
var preamble = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F}

const (
	presenceTag = 1 << iota
	presenceUserMsg
	presenceTOD
	presenceTOM
	presenceTUsr
	presenceFileData
)

// Config bundles a Save/Load call's dependencies.
type Config struct {
	Logger         *zap.SugaredLogger
	ProgressEvery  int
	ReadBufferSize int
}

func (c Config) logger() *zap.SugaredLogger {
	if c.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return c.Logger
}

// Save traverses db depth-first from its root and streams every entry that
// passes verification to w. Entries that fail verification are skipped
// together with their subtree, and a warning is logged, per spec §4.G.
func Save(w io.Writer, db *catalog.Database, cfg Config) error {
	log := cfg.logger()
	bw := bufio.NewWriter(w)

	ordered := linkEntriesForSave(db, log)

	if _, err := bw.Write(preamble); err != nil {
		return persistErr(err, "writing preamble")
	}
	if _, err := bw.WriteString(Version); err != nil {
		return persistErr(err, "writing version")
	}
	if err := writeU64(bw, countBranches(ordered)); err != nil {
		return persistErr(err, "writing branch_count")
	}
	if err := writeU64(bw, uint64(len(ordered))); err != nil {
		return persistErr(err, "writing entry_count")
	}

	for i, e := range ordered {
		if err := writeEntry(bw, e); err != nil {
			return persistErr(err, fmt.Sprintf("writing entry %d", i))
		}
		if cfg.ProgressEvery > 0 && (i+1)%cfg.ProgressEvery == 0 {
			log.Infow("save progress", "written", i+1, "total", len(ordered))
		}
	}

	if _, err := bw.Write(preamble); err != nil {
		return persistErr(err, "writing trailer")
	}
	return bw.Flush()
}

func countBranches(entries []*catalog.Entry) uint64 {
	seen := make(map[catalog.EID]struct{})
	for _, e := range entries {
		seen[e.BranchID] = struct{}{}
	}
	return uint64(len(seen))
}

// linkEntriesForSave DFS-orders db's forest so every entry is streamed
// after its parent, mirroring the original's transient link_prev/link_next
// traversal pass. Entries failing verification are dropped along with
// their subtree.
func linkEntriesForSave(db *catalog.Database, log *zap.SugaredLogger) []*catalog.Entry {
	var ordered []*catalog.Entry
	var walk func(e *catalog.Entry)
	walk = func(e *catalog.Entry) {
		if e != db.Root() {
			if err := db.VerifyEntry(e, catalog.VerifyFlags{}); err != nil {
				log.Warnw("skipping entry failing verification", "entry", e.FileName, "err", err)
				return
			}
			ordered = append(ordered, e)
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	walk(db.Root())
	return ordered
}

func writeEntry(w *bufio.Writer, e *catalog.Entry) error {
	if err := writeEID(w, e.BranchID); err != nil {
		return err
	}
	if err := writeEID(w, e.ID); err != nil {
		return err
	}
	parentID := catalog.EID{}
	if e.Parent != nil && e.HasParent {
		parentID = e.Parent.ID
	}
	if err := writeEID(w, parentID); err != nil {
		return err
	}
	if err := writeU16(w, uint16(e.Type)); err != nil {
		return err
	}
	if err := writeU64(w, uint64(len(e.Children))); err != nil {
		return err
	}
	if err := w.WriteByte(byte(e.Created)); err != nil {
		return err
	}

	if err := writeU16(w, uint16(len(e.FileName))); err != nil {
		return err
	}
	if _, err := w.WriteString(e.FileName); err != nil {
		return err
	}

	presence := uint64(0)
	if e.TagStr != "" {
		presence |= presenceTag
	}
	if e.UserMsg != "" {
		presence |= presenceUserMsg
	}
	if e.TOD != nil {
		presence |= presenceTOD
	}
	if e.TOM != nil {
		presence |= presenceTOM
	}
	if e.TUsr != nil {
		presence |= presenceTUsr
	}
	if e.FileData != nil {
		presence |= presenceFileData
	}
	if err := writeU64(w, presence); err != nil {
		return err
	}

	if presence&presenceTag != 0 {
		if err := writeStrBlock(w, e.TagStr); err != nil {
			return err
		}
	}
	if presence&presenceUserMsg != 0 {
		if err := writeStrBlock(w, e.UserMsg); err != nil {
			return err
		}
	}
	if presence&presenceTOD != 0 {
		if err := writeTime(w, *e.TOD); err != nil {
			return err
		}
	}
	if presence&presenceTOM != 0 {
		if err := writeTime(w, *e.TOM); err != nil {
			return err
		}
	}
	if presence&presenceTUsr != 0 {
		if err := writeTime(w, *e.TUsr); err != nil {
			return err
		}
	}
	if presence&presenceFileData != 0 {
		if err := writeFileData(w, e.FileData); err != nil {
			return err
		}
	}
	return nil
}

func writeFileData(w *bufio.Writer, fd *catalog.FileData) error {
	if err := writeU64(w, uint64(fd.FileSize)); err != nil {
		return err
	}
	if err := writeChecksums(w, fd.Checksum[:]); err != nil {
		return err
	}
	if err := writeExtracts(w, fd.Extracts); err != nil {
		return err
	}
	if err := writeU64(w, uint64(len(fd.Sections))); err != nil {
		return err
	}
	if err := writeU64(w, uint64(fd.NormSectSize)); err != nil {
		return err
	}
	if err := writeU64(w, uint64(fd.LastSectSize)); err != nil {
		return err
	}
	for _, s := range fd.Sections {
		if err := writeU64(w, uint64(s.Start)); err != nil {
			return err
		}
		if err := writeU64(w, uint64(s.End)); err != nil {
			return err
		}
		if err := writeChecksums(w, s.Checksum[:]); err != nil {
			return err
		}
		if err := writeExtracts(w, s.Extracts); err != nil {
			return err
		}
	}
	return nil
}

func writeChecksums(w *bufio.Writer, slots []catalog.ChecksumSlot) error {
	count := 0
	for _, s := range slots {
		if s.Set {
			count++
		}
	}
	if err := writeU16(w, uint16(count)); err != nil {
		return err
	}
	for kind, s := range slots {
		if !s.Set {
			continue
		}
		if err := writeU16(w, uint16(kind)); err != nil {
			return err
		}
		if err := writeU16(w, uint16(len(s.Bytes))); err != nil {
			return err
		}
		if _, err := w.Write(s.Bytes); err != nil {
			return err
		}
	}
	return nil
}

func writeExtracts(w *bufio.Writer, extracts []catalog.Extract) error {
	if err := writeU32(w, uint32(len(extracts))); err != nil {
		return err
	}
	for _, ex := range extracts {
		if err := writeU64(w, uint64(ex.Position)); err != nil {
			return err
		}
		if err := writeU16(w, uint16(len(ex.Data))); err != nil {
			return err
		}
		if _, err := w.Write(ex.Data); err != nil {
			return err
		}
	}
	return nil
}

func writeTime(w *bufio.Writer, t time.Time) error {
	fields := []byte{
		byte(t.Second()), byte(t.Minute()), byte(t.Hour()),
		byte(t.Day()), byte(t.Month() - 1),
	}
	if _, err := w.Write(fields); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, int64(t.Year())); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.Weekday())}); err != nil {
		return err
	}
	if err := writeU16(w, uint16(t.YearDay()-1)); err != nil {
		return err
	}
	return w.WriteByte(0) // isdst: unknown/unused under UTC-only storage
}

func writeEID(w *bufio.Writer, id catalog.EID) error {
	_, err := w.Write(id[:])
	return err
}

func writeStrBlock(w *bufio.Writer, s string) error {
	if err := writeU16(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func writeU16(w io.Writer, v uint16) error { return binary.Write(w, binary.BigEndian, v) }
func writeU32(w io.Writer, v uint32) error { return binary.Write(w, binary.BigEndian, v) }
func writeU64(w io.Writer, v uint64) error { return binary.Write(w, binary.BigEndian, v) }

func persistErr(cause error, during string) error {
	return errors.NewPersistError(cause, errors.CodeFwriteError, "persist: "+during)
}
