package persist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/nilotpal-labs/ffcat/internal/catalog"
	"github.com/nilotpal-labs/ffcat/pkg/errors"
	"go.uber.org/zap"
)

// Load performs a single forward pass over r, reconstructing db's entries,
// file-data and sections and linking each into every applicable index as
// soon as it is deserialised. It reports the first failure and aborts
// (spec §4.G); duplicate entry ids surface as DuplicateError.
func Load(r io.Reader, db *catalog.Database, cfg Config) error {
	log := cfg.logger()
	br := bufio.NewReaderSize(r, readBufferSize(cfg))

	if err := expectPreamble(br); err != nil {
		return err
	}
	version := make([]byte, len(Version))
	if _, err := io.ReadFull(br, version); err != nil {
		return loadErr(err, errors.CodeFileEndTooSoon, "reading version")
	}
	if string(version) != Version {
		return errors.NewPersistError(nil, errors.CodeFileNoSupport, "unsupported database version").
			WithField("version")
	}

	if _, err := readU64(br); err != nil { // branch_count: informational, recomputed on link
		return loadErr(err, errors.CodeFileEndTooSoon, "reading branch_count")
	}
	entryCount, err := readU64(br)
	if err != nil {
		return loadErr(err, errors.CodeFileEndTooSoon, "reading entry_count")
	}

	byID := make(map[catalog.EID]*catalog.Entry)

	for i := uint64(0); i < entryCount; i++ {
		rec, err := readEntryRecord(br)
		if err != nil {
			return loadErr(err, errors.CodeFileBroken, "reading entry record")
		}
		if rec.typ == catalog.EntryTypeOther {
			return errors.NewPersistError(nil, errors.CodeFileNoSupport, "entry type Other is not supported").
				WithField("type")
		}

		parent := db.Root()
		if !rec.parentID.IsZero() {
			if p, ok := byID[rec.parentID]; ok {
				parent = p
			}
		}

		e, err := db.CreateEntry(parent, rec.id, rec.typ, rec.createdBy)
		if err != nil {
			return err
		}
		e.BranchID = rec.branchID
		e.FileName = rec.fileName
		e.TagStr = rec.tagStr
		e.UserMsg = rec.userMsg
		e.TOD = rec.tod
		e.TOM = rec.tom
		e.TUsr = rec.tusr

		if rec.fileData != nil {
			fd := db.AttachFileData(e)
			fd.FileSize = rec.fileData.FileSize
			fd.NormSectSize = rec.fileData.NormSectSize
			fd.LastSectSize = rec.fileData.LastSectSize
			fd.Checksum = rec.fileData.Checksum
			fd.Extracts = rec.fileData.Extracts
			for _, s := range rec.sections {
				ns := db.AttachSection(fd)
				ns.Start, ns.End = s.Start, s.End
				ns.Checksum = s.Checksum
				ns.Extracts = s.Extracts
			}
		}

		if _, dup := byID[e.ID]; dup {
			return errors.NewCatalogError(nil, errors.CodeDuplicateError, "duplicate entry id on load").
				WithEntryID(eidHexLoad(e.ID))
		}
		byID[e.ID] = e

		if err := db.LinkEntry(e); err != nil {
			return err
		}
		if e.FileData != nil {
			if err := db.LinkFileData(e.FileData); err != nil {
				return err
			}
			for _, s := range e.FileData.Sections {
				if err := db.LinkSection(s); err != nil {
					return err
				}
			}
		}

		if cfg.ProgressEvery > 0 && (i+1)%uint64(cfg.ProgressEvery) == 0 {
			log.Infow("load progress", "read", i+1, "total", entryCount)
		}
	}

	if err := expectPreamble(br); err != nil {
		return err
	}
	return nil
}

func readBufferSize(cfg Config) int {
	if cfg.ReadBufferSize > 0 {
		return cfg.ReadBufferSize
	}
	return 1024
}

func expectPreamble(r io.Reader) error {
	got := make([]byte, len(preamble))
	if _, err := io.ReadFull(r, got); err != nil {
		return loadErr(err, errors.CodeFileEndTooSoon, "reading preamble")
	}
	if !bytes.Equal(got, preamble) {
		return errors.NewPersistError(nil, errors.CodeFileBroken, "preamble mismatch")
	}
	return nil
}

type entryRecord struct {
	branchID, id, parentID catalog.EID
	typ                    catalog.EntryType
	createdBy              catalog.CreatedBy
	fileName               string
	tagStr, userMsg        string
	tod, tom, tusr         *time.Time
	fileData               *catalog.FileData
	sections               []*catalog.Section
}

func readEntryRecord(r *bufio.Reader) (*entryRecord, error) {
	rec := &entryRecord{}

	if err := readEID(r, &rec.branchID); err != nil {
		return nil, err
	}
	if err := readEID(r, &rec.id); err != nil {
		return nil, err
	}
	if err := readEID(r, &rec.parentID); err != nil {
		return nil, err
	}

	typ, err := readU16(r)
	if err != nil {
		return nil, err
	}
	rec.typ = catalog.EntryType(typ)

	if _, err := readU64(r); err != nil { // child_count: reserved, reconstructed from parenting
		return nil, err
	}

	createdBy, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	rec.createdBy = catalog.CreatedBy(createdBy)

	nameLen, err := readU16(r)
	if err != nil {
		return nil, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, err
	}
	rec.fileName = string(name)

	presence, err := readU64(r)
	if err != nil {
		return nil, err
	}

	if presence&presenceTag != 0 {
		s, err := readStrBlock(r)
		if err != nil {
			return nil, err
		}
		rec.tagStr = s
	}
	if presence&presenceUserMsg != 0 {
		s, err := readStrBlock(r)
		if err != nil {
			return nil, err
		}
		rec.userMsg = s
	}
	if presence&presenceTOD != 0 {
		t, err := readTime(r)
		if err != nil {
			return nil, err
		}
		rec.tod = &t
	}
	if presence&presenceTOM != 0 {
		t, err := readTime(r)
		if err != nil {
			return nil, err
		}
		rec.tom = &t
	}
	if presence&presenceTUsr != 0 {
		t, err := readTime(r)
		if err != nil {
			return nil, err
		}
		rec.tusr = &t
	}
	if presence&presenceFileData != 0 {
		fd, sections, err := readFileData(r)
		if err != nil {
			return nil, err
		}
		rec.fileData = fd
		rec.sections = sections
	}

	return rec, nil
}

func readFileData(r *bufio.Reader) (*catalog.FileData, []*catalog.Section, error) {
	size, err := readU64(r)
	if err != nil {
		return nil, nil, err
	}
	checksums, err := readChecksums(r)
	if err != nil {
		return nil, nil, err
	}
	extracts, err := readExtracts(r)
	if err != nil {
		return nil, nil, err
	}
	sectionCount, err := readU64(r)
	if err != nil {
		return nil, nil, err
	}
	normSize, err := readU64(r)
	if err != nil {
		return nil, nil, err
	}
	lastSize, err := readU64(r)
	if err != nil {
		return nil, nil, err
	}

	fd := &catalog.FileData{
		FileSize:     int64(size),
		NormSectSize: int64(normSize),
		LastSectSize: int64(lastSize),
		Checksum:     checksums,
		Extracts:     extracts,
	}

	sections := make([]*catalog.Section, 0, sectionCount)
	for i := uint64(0); i < sectionCount; i++ {
		start, err := readU64(r)
		if err != nil {
			return nil, nil, err
		}
		end, err := readU64(r)
		if err != nil {
			return nil, nil, err
		}
		sChecksums, err := readChecksums(r)
		if err != nil {
			return nil, nil, err
		}
		sExtracts, err := readExtracts(r)
		if err != nil {
			return nil, nil, err
		}
		sections = append(sections, &catalog.Section{
			Start:    int64(start),
			End:      int64(end),
			Checksum: sChecksums,
			Extracts: sExtracts,
		})
	}
	return fd, sections, nil
}

func readChecksums(r *bufio.Reader) ([3]catalog.ChecksumSlot, error) {
	var slots [3]catalog.ChecksumSlot
	count, err := readU16(r)
	if err != nil {
		return slots, err
	}
	for i := uint16(0); i < count; i++ {
		kind, err := readU16(r)
		if err != nil {
			return slots, err
		}
		length, err := readU16(r)
		if err != nil {
			return slots, err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return slots, err
		}
		if int(kind) < len(slots) {
			slots[kind] = catalog.ChecksumSlot{Set: true, Bytes: buf}
		}
	}
	return slots, nil
}

func readExtracts(r *bufio.Reader) ([]catalog.Extract, error) {
	count, err := readU32(r)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Extract, 0, count)
	for i := uint32(0); i < count; i++ {
		pos, err := readU64(r)
		if err != nil {
			return nil, err
		}
		length, err := readU16(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		out = append(out, catalog.Extract{Position: int64(pos), Data: buf})
	}
	return out, nil
}

func readTime(r *bufio.Reader) (time.Time, error) {
	fields := make([]byte, 5)
	if _, err := io.ReadFull(r, fields); err != nil {
		return time.Time{}, err
	}
	sec, min, hour, day, mon := fields[0], fields[1], fields[2], fields[3], fields[4]

	var year int64
	if err := binary.Read(r, binary.BigEndian, &year); err != nil {
		return time.Time{}, err
	}

	rest := make([]byte, 1)
	if _, err := io.ReadFull(r, rest); err != nil { // wday: derivable, not trusted on read
		return time.Time{}, err
	}
	if _, err := readU16(r); err != nil { // yday: derivable, not trusted on read
		return time.Time{}, err
	}
	if _, err := r.ReadByte(); err != nil { // isdst
		return time.Time{}, err
	}

	return time.Date(int(year), time.Month(mon)+1, int(day), int(hour), int(min), int(sec), 0, time.UTC), nil
}

func readStrBlock(r *bufio.Reader) (string, error) {
	n, err := readU16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readEID(r *bufio.Reader, out *catalog.EID) error {
	_, err := io.ReadFull(r, out[:])
	return err
}

func readU16(r io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.BigEndian, &v)
	return v, err
}

func loadErr(cause error, code errors.Code, during string) error {
	if cause == io.EOF || cause == io.ErrUnexpectedEOF {
		code = errors.CodeFileEndTooSoon
	}
	return errors.NewPersistError(cause, code, "load: "+during)
}

func eidHexLoad(id catalog.EID) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(id)*2)
	for i, c := range id {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
