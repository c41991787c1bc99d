package options

const (
	// FileNameMax is the maximum length, in bytes, of an entry's file_name
	// (spec §3, §6: FILE_NAME_MAX=255).
	FileNameMax = 255

	// TagLenMax is the maximum length of a single canonicalised tag,
	// including its `|...|` fences.
	TagLenMax = 64

	// TagMaxNum is the maximum number of tags an entry may carry.
	TagMaxNum = 32

	// TagStrMax is the maximum length of the full tag_str blob (spec §6:
	// "system-defined, >= TAG_LEN_MAX*TAG_MAX_NUM+fences").
	TagStrMax = TagLenMax*TagMaxNum + 2

	// TagMinLen is the minimum length a single tag's textual form may have
	// once canonicalised (spec §9 "tag min-length capture": recorded but,
	// per the original, not currently enforced beyond max_len and count).
	TagMinLen = 3

	// UserMsgMax is the maximum length, in bytes, of an entry's user_msg.
	UserMsgMax = 4096

	// ChecksumMaxNum is the number of checksum slots per file-data/section
	// (spec §6: SHA1=0, SHA256=1, SHA512=2).
	ChecksumMaxNum = 3

	// ChecksumMaxLen is the maximum raw digest length, in bytes (SHA-512).
	ChecksumMaxLen = 64

	// ExtractMaxNum is the maximum number of extract samples per
	// file-data/section.
	ExtractMaxNum = 8

	// ExtractSizeMax is the maximum length, in bytes, of a single extract.
	ExtractSizeMax = 256

	// FileSizeMax bounds file_size to keep section/extract arithmetic in
	// the int64 domain used by the persistence layer.
	FileSizeMax = 1 << 48

	// EIDLen is the raw byte length of an entry id.
	EIDLen = 8

	// EIDStrMax is the length of the hex string form plus NUL
	// (16 hex chars + 1).
	EIDStrMax = EIDLen*2 + 1

	// DefaultL1Size is the default slot count per slab pool L1 block.
	DefaultL1Size = 256

	// DefaultMaxLen is the default existence-matrix MaxLen seed for
	// attributes that don't have an obviously tighter bound (hash hex
	// strings use their fixed hex length instead).
	DefaultMaxLen = FileNameMax

	// DefaultGenIDRetries is the retry cap on entry id collisions before
	// CopyEntry fails with GenIdFail (spec §4.E, §9).
	DefaultGenIDRetries = 1000

	// DefaultReadBufferSize is the default Options.ReadBufferSize; the
	// persistence loader also falls back to 1024 bytes when given no size
	// (spec §4.G: "a 1 KiB read buffer").
	DefaultReadBufferSize = 1024

	// DefaultProgressEvery is the default Options.ProgressEvery (spec §5:
	// "print periodic progress").
	DefaultProgressEvery = 1000
)

// defaultOptions holds the baseline configuration for a new Database.
var defaultOptions = Options{
	L1Size:         DefaultL1Size,
	GenIDRetries:   DefaultGenIDRetries,
	ReadBufferSize: DefaultReadBufferSize,
	FileNameMax:    FileNameMax,
	TagLenMax:      TagLenMax,
	TagMaxNum:      TagMaxNum,
	TagStrMax:      TagStrMax,
	TagMinLen:      TagMinLen,
	UserMsgMax:     UserMsgMax,
	ChecksumMaxNum: ChecksumMaxNum,
	ChecksumMaxLen: ChecksumMaxLen,
	ExtractMaxNum:  ExtractMaxNum,
	ExtractSizeMax: ExtractSizeMax,
	FileSizeMax:    FileSizeMax,
	Verbose:        false,
	ProgressEvery:  DefaultProgressEvery,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
