package catalog

import "github.com/nilotpal-labs/ffcat/internal/transindex"

func fnLinkOps() transindex.LinkOps[*Entry] {
	return transindex.LinkOps[*Entry]{
		GetPrev: func(e *Entry) *Entry { return e.prevFN },
		SetPrev: func(e, prev *Entry) { e.prevFN = prev },
		GetNext: func(e *Entry) *Entry { return e.nextFN },
		SetNext: func(e, next *Entry) { e.nextFN = next },
		IsNil:   func(e *Entry) bool { return e == nil },
	}
}

func tagLinkOps() transindex.LinkOps[*Entry] {
	return transindex.LinkOps[*Entry]{
		GetPrev: func(e *Entry) *Entry { return e.prevTag },
		SetPrev: func(e, prev *Entry) { e.prevTag = prev },
		GetNext: func(e *Entry) *Entry { return e.nextTag },
		SetNext: func(e, next *Entry) { e.nextTag = next },
		IsNil:   func(e *Entry) bool { return e == nil },
	}
}

func sizeLinkOps() transindex.LinkOps[*FileData] {
	return transindex.LinkOps[*FileData]{
		GetPrev: func(f *FileData) *FileData { return f.prevSize },
		SetPrev: func(f, prev *FileData) { f.prevSize = prev },
		GetNext: func(f *FileData) *FileData { return f.nextSize },
		SetNext: func(f, next *FileData) { f.nextSize = next },
		IsNil:   func(f *FileData) bool { return f == nil },
	}
}

func fileHashLinkOps(kind ChecksumKind) transindex.LinkOps[*FileData] {
	switch kind {
	case ChecksumSHA1:
		return transindex.LinkOps[*FileData]{
			GetPrev: func(f *FileData) *FileData { return f.prevSHA1 },
			SetPrev: func(f, p *FileData) { f.prevSHA1 = p },
			GetNext: func(f *FileData) *FileData { return f.nextSHA1 },
			SetNext: func(f, n *FileData) { f.nextSHA1 = n },
			IsNil:   func(f *FileData) bool { return f == nil },
		}
	case ChecksumSHA256:
		return transindex.LinkOps[*FileData]{
			GetPrev: func(f *FileData) *FileData { return f.prevSHA256 },
			SetPrev: func(f, p *FileData) { f.prevSHA256 = p },
			GetNext: func(f *FileData) *FileData { return f.nextSHA256 },
			SetNext: func(f, n *FileData) { f.nextSHA256 = n },
			IsNil:   func(f *FileData) bool { return f == nil },
		}
	default:
		return transindex.LinkOps[*FileData]{
			GetPrev: func(f *FileData) *FileData { return f.prevSHA512 },
			SetPrev: func(f, p *FileData) { f.prevSHA512 = p },
			GetNext: func(f *FileData) *FileData { return f.nextSHA512 },
			SetNext: func(f, n *FileData) { f.nextSHA512 = n },
			IsNil:   func(f *FileData) bool { return f == nil },
		}
	}
}

func sectionHashLinkOps(kind ChecksumKind) transindex.LinkOps[*Section] {
	switch kind {
	case ChecksumSHA1:
		return transindex.LinkOps[*Section]{
			GetPrev: func(s *Section) *Section { return s.prevSHA1 },
			SetPrev: func(s, p *Section) { s.prevSHA1 = p },
			GetNext: func(s *Section) *Section { return s.nextSHA1 },
			SetNext: func(s, n *Section) { s.nextSHA1 = n },
			IsNil:   func(s *Section) bool { return s == nil },
		}
	case ChecksumSHA256:
		return transindex.LinkOps[*Section]{
			GetPrev: func(s *Section) *Section { return s.prevSHA256 },
			SetPrev: func(s, p *Section) { s.prevSHA256 = p },
			GetNext: func(s *Section) *Section { return s.nextSHA256 },
			SetNext: func(s, n *Section) { s.nextSHA256 = n },
			IsNil:   func(s *Section) bool { return s == nil },
		}
	default:
		return transindex.LinkOps[*Section]{
			GetPrev: func(s *Section) *Section { return s.prevSHA512 },
			SetPrev: func(s, p *Section) { s.prevSHA512 = p },
			GetNext: func(s *Section) *Section { return s.nextSHA512 },
			SetNext: func(s, n *Section) { s.nextSHA512 = n },
			IsNil:   func(s *Section) bool { return s == nil },
		}
	}
}
