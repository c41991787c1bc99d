package catalog

import (
	"fmt"
	"strconv"

	"github.com/nilotpal-labs/ffcat/internal/slab"
	"github.com/nilotpal-labs/ffcat/internal/transindex"
	"github.com/nilotpal-labs/ffcat/pkg/errors"
	"github.com/nilotpal-labs/ffcat/pkg/options"
	"go.uber.org/zap"
)

// Config bundles a Database's dependencies, in the teacher's
// storage.Config/engine.Config shape.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// Database owns every slab pool, translation index, and the date-time
// trees for a single catalog (spec §3 "Ownership").
type Database struct {
	opts *options.Options
	log  *zap.SugaredLogger

	entryPool    *slab.Pool[Entry]
	fileDataPool *slab.Pool[FileData]
	sectionPool  *slab.Pool[Section]

	eid *transindex.Index[*Entry]
	fn  *transindex.Index[*Entry]
	tag *transindex.Index[*Entry]

	size  *transindex.Index[*FileData]
	fHash [checksumKindCount]*transindex.Index[*FileData]
	sHash [checksumKindCount]*transindex.Index[*Section]

	tod  *dtTree
	tom  *dtTree
	tusr *dtTree

	root *Entry
}

// New creates an empty Database with a tree-root sentinel entry.
func New(cfg Config) *Database {
	opts := cfg.Options
	if opts == nil {
		o := options.NewDefaultOptions()
		opts = &o
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	l1 := opts.L1Size
	db := &Database{
		opts:         opts,
		log:          log,
		entryPool:    slab.New[Entry](l1),
		fileDataPool: slab.New[FileData](l1),
		sectionPool:  slab.New[Section](l1),
		eid:          transindex.NewOneToOne[*Entry]("eid", l1, options.EIDStrMax),
		fn:           transindex.NewOneToMany[*Entry]("fn", l1, opts.FileNameMax, fnLinkOps()),
		tag:          transindex.NewOneToMany[*Entry]("tag", l1, opts.TagStrMax, tagLinkOps()),
		size:         transindex.NewOneToMany[*FileData]("f_size", l1, 20, sizeLinkOps()),
		tod:          newDTTree(),
		tom:          newDTTree(),
		tusr:         newDTTree(),
	}
	for k := ChecksumSHA1; k < checksumKindCount; k++ {
		db.fHash[k] = transindex.NewOneToMany[*FileData](fileHashAttr(k), l1, options.ChecksumMaxLen*2, fileHashLinkOps(k))
		db.sHash[k] = transindex.NewOneToMany[*Section](sectionHashAttr(k), l1, options.ChecksumMaxLen*2, sectionHashLinkOps(k))
	}

	db.root = &Entry{state: StateIndexed}
	return db
}

func fileHashAttr(k ChecksumKind) string {
	return [...]string{"sha1f", "sha256f", "sha512f"}[k]
}

func sectionHashAttr(k ChecksumKind) string {
	return [...]string{"sha1s", "sha256s", "sha512s"}[k]
}

// Root returns the database's tree-root sentinel entry. It is never
// returned by lookups and has no identity of its own.
func (db *Database) Root() *Entry { return db.root }

// Options returns the database's configuration.
func (db *Database) Options() *options.Options { return db.opts }

// CreateEntry allocates a new entry under parent (spec §4.E step 1-3).
// parent may be db.Root(). The caller fills in FileName and other scalar
// fields afterwards and calls LinkEntry to index it.
func (db *Database) CreateEntry(parent *Entry, id EID, typ EntryType, created CreatedBy) (*Entry, error) {
	if parent == nil {
		parent = db.root
	}

	e, slot := db.entryPool.Add()
	e.slot = slot
	e.ID = id
	e.Type = typ
	e.Created = created
	e.Parent = parent
	e.HasParent = parent != db.root
	e.Depth = parent.Depth + 1
	if parent == db.root {
		e.BranchID = id
	} else {
		e.BranchID = parent.BranchID
	}
	e.state = StateUnlinked

	parent.Children = append(parent.Children, e)
	e.state = StateAttached

	return e, nil
}

// LinkEntry links an attached entry into every applicable translation
// index, the existence matrices they carry, and the tod/tom/tusr date-time
// trees (spec §4.E step 4). It transitions the entry to StateIndexed.
func (db *Database) LinkEntry(e *Entry) error {
	if err := db.eid.Add(eidHex(e.ID), e); err != nil {
		return errors.NewIndexError(err, errors.CodeDuplicateError, "duplicate entry id").
			WithAttribute("eid").WithValue(eidHex(e.ID))
	}
	if e.FileName != "" {
		if err := db.fn.Add(e.FileName, e); err != nil {
			return err
		}
	}
	if e.TagStr != "" {
		if err := db.tag.Add(e.TagStr, e); err != nil {
			return err
		}
	}
	if e.TOD != nil {
		db.tod.insert(*e.TOD, e, todLinkOps())
	}
	if e.TOM != nil {
		db.tom.insert(*e.TOM, e, tomLinkOps())
	}
	if e.TUsr != nil {
		db.tusr.insert(*e.TUsr, e, tusrLinkOps())
	}
	e.state = StateIndexed
	return nil
}

// UnlinkEntry removes e from every index it currently participates in,
// returning it to StateAttached. An entry that is not StateIndexed is left
// unchanged.
func (db *Database) UnlinkEntry(e *Entry) error {
	if e.state != StateIndexed {
		return nil
	}
	if err := db.eid.DeleteMember(eidHex(e.ID), e); err != nil {
		return err
	}
	if e.FileName != "" {
		if err := db.fn.DeleteMember(e.FileName, e); err != nil {
			return err
		}
	}
	if e.TagStr != "" {
		if err := db.tag.DeleteMember(e.TagStr, e); err != nil {
			return err
		}
	}
	if e.TOD != nil {
		db.tod.remove(*e.TOD, e, todLinkOps())
	}
	if e.TOM != nil {
		db.tom.remove(*e.TOM, e, tomLinkOps())
	}
	if e.TUsr != nil {
		db.tusr.remove(*e.TUsr, e, tusrLinkOps())
	}
	e.state = StateAttached
	return nil
}

// DeleteEntry recursively deletes e and its children, unlinking each from
// every index before returning its slot to the pool (spec §3 Lifecycle).
func (db *Database) DeleteEntry(e *Entry) error {
	for _, child := range append([]*Entry(nil), e.Children...) {
		if err := db.DeleteEntry(child); err != nil {
			return err
		}
	}

	if err := db.UnlinkEntry(e); err != nil {
		return err
	}
	if e.FileData != nil {
		if err := db.deleteFileData(e.FileData); err != nil {
			return err
		}
	}
	if e.Parent != nil {
		removeChild(e.Parent, e)
	}

	e.state = StateUnlinked
	if e != db.root {
		// Del zeroes the slot, so e reads as an empty entry afterwards.
		if err := db.entryPool.Del(e.slot); err != nil {
			return err
		}
	}
	return nil
}

func removeChild(parent, child *Entry) {
	for i, c := range parent.Children {
		if c == child {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

// AttachFileData creates an empty FileData record owned by e, replacing any
// existing one. The caller populates scalar fields then calls LinkFileData.
func (db *Database) AttachFileData(e *Entry) *FileData {
	fd, _ := db.fileDataPool.Add()
	fd.owner = e
	e.FileData = fd
	return fd
}

// LinkFileData indexes fd's size and whole-file hash checksums.
func (db *Database) LinkFileData(fd *FileData) error {
	if err := db.size.Add(strconv.FormatInt(fd.FileSize, 10), fd); err != nil {
		return err
	}
	for k := ChecksumSHA1; k < checksumKindCount; k++ {
		if fd.Checksum[k].Set {
			if err := db.fHash[k].Add(fd.Checksum[k].HexStr(), fd); err != nil {
				return err
			}
		}
	}
	return nil
}

func (db *Database) deleteFileData(fd *FileData) error {
	for _, s := range fd.Sections {
		if err := db.deleteSection(s); err != nil {
			return err
		}
	}
	if err := db.size.DeleteMember(strconv.FormatInt(fd.FileSize, 10), fd); err != nil {
		return err
	}
	for k := ChecksumSHA1; k < checksumKindCount; k++ {
		if fd.Checksum[k].Set {
			if err := db.fHash[k].DeleteMember(fd.Checksum[k].HexStr(), fd); err != nil {
				return err
			}
		}
	}
	return nil
}

// AttachSection creates an empty Section owned by fd.
func (db *Database) AttachSection(fd *FileData) *Section {
	s, _ := db.sectionPool.Add()
	s.owner = fd
	fd.Sections = append(fd.Sections, s)
	return s
}

// LinkSection indexes s's hash checksums.
func (db *Database) LinkSection(s *Section) error {
	for k := ChecksumSHA1; k < checksumKindCount; k++ {
		if s.Checksum[k].Set {
			if err := db.sHash[k].Add(s.Checksum[k].HexStr(), s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (db *Database) deleteSection(s *Section) error {
	for k := ChecksumSHA1; k < checksumKindCount; k++ {
		if s.Checksum[k].Set {
			if err := db.sHash[k].DeleteMember(s.Checksum[k].HexStr(), s); err != nil {
				return err
			}
		}
	}
	return nil
}

// FindEntryExact performs an L0 exact lookup by entry id (spec §4.F).
func (db *Database) FindEntryExact(id EID) (*Entry, error) {
	return db.eid.ExactLookup(eidHex(id))
}

func eidHex(id EID) string {
	return fmt.Sprintf("%x", id[:])
}
