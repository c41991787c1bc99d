// Package options provides data structures and functions for configuring
// the catalog engine. It defines the size limits the on-disk format and the
// translation indices are built around, plus the engine tuning knobs that
// control memory layout and progress reporting.
package options

// Options defines the configuration parameters for a Database. Every limit
// here is either baked into the persisted file layout (changing it on an
// existing database requires a rebuild) or a pure in-memory tuning knob.
type Options struct {
	// L1Size is the slot count of a slab pool's L1 block, i.e. how many
	// entries/sections/file-data records a single allocation grows the
	// pool by.
	//
	// Default: 256
	L1Size uint64 `json:"l1Size"`

	// GenIDRetries bounds how many random entry ids CopyEntry will try
	// before giving up with GenIdFail.
	//
	// Default: 1000
	GenIDRetries int `json:"genIdRetries"`

	// ReadBufferSize is the forward read buffer size for loading a
	// persisted database. ffcat.Load takes its buffer size as an argument
	// and does not read this field.
	//
	// Default: 1024
	ReadBufferSize int `json:"readBufferSize"`

	// FileNameMax is the maximum length, in bytes, of an entry's file name.
	//
	// Default: 255
	FileNameMax int `json:"fileNameMax"`

	// TagLenMax is the maximum length of a single canonicalised tag.
	//
	// Default: 64
	TagLenMax int `json:"tagLenMax"`

	// TagMaxNum is the maximum number of tags an entry may carry.
	//
	// Default: 32
	TagMaxNum int `json:"tagMaxNum"`

	// TagStrMax is the maximum length of the concatenated tag_str blob.
	//
	// Default: TagLenMax*TagMaxNum+2
	TagStrMax int `json:"tagStrMax"`

	// TagMinLen records the minimum length of a canonicalised tag. It is
	// not enforced: VerifyEntry checks only tag length and count maxima.
	//
	// Default: 3
	TagMinLen int `json:"tagMinLen"`

	// UserMsgMax is the maximum length, in bytes, of an entry's user_msg.
	//
	// Default: 4096
	UserMsgMax int `json:"userMsgMax"`

	// ChecksumMaxNum is the number of checksum slots per file-data/section.
	//
	// Default: 3
	ChecksumMaxNum int `json:"checksumMaxNum"`

	// ChecksumMaxLen is the maximum raw digest length, in bytes.
	//
	// Default: 64
	ChecksumMaxLen int `json:"checksumMaxLen"`

	// ExtractMaxNum is the maximum number of extract samples per
	// file-data/section.
	//
	// Default: 8
	ExtractMaxNum int `json:"extractMaxNum"`

	// ExtractSizeMax is the maximum length, in bytes, of a single extract.
	//
	// Default: 256
	ExtractSizeMax int `json:"extractSizeMax"`

	// FileSizeMax bounds the file_size an entry may record.
	//
	// Default: 1<<48
	FileSizeMax int64 `json:"fileSizeMax"`

	// Verbose is carried in the configuration but is not read by any
	// component; it does not change what is logged.
	//
	// Default: false
	Verbose bool `json:"verbose"`

	// ProgressEvery is the number of entries a save/load traversal
	// processes between progress log lines, zero meaning none. ffcat's
	// Save takes its interval as an argument and does not read this field.
	//
	// Default: 1000
	ProgressEvery int `json:"progressEvery"`
}

// OptionFunc is a function type that modifies a Database's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration values to Options.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithL1Size sets the slab pool L1 block size.
func WithL1Size(size uint64) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.L1Size = size
		}
	}
}

// WithGenIDRetries sets the entry-id collision retry cap.
func WithGenIDRetries(retries int) OptionFunc {
	return func(o *Options) {
		if retries > 0 {
			o.GenIDRetries = retries
		}
	}
}

// WithReadBufferSize sets the persistence loader's forward read buffer size.
func WithReadBufferSize(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.ReadBufferSize = size
		}
	}
}

// WithFileNameMax sets the maximum file name length.
func WithFileNameMax(max int) OptionFunc {
	return func(o *Options) {
		if max > 0 {
			o.FileNameMax = max
		}
	}
}

// WithTagLimits sets the per-tag length cap and the max tag count, and
// derives TagStrMax from them.
func WithTagLimits(tagLenMax, tagMaxNum int) OptionFunc {
	return func(o *Options) {
		if tagLenMax > 0 {
			o.TagLenMax = tagLenMax
		}
		if tagMaxNum > 0 {
			o.TagMaxNum = tagMaxNum
		}
		o.TagStrMax = o.TagLenMax*o.TagMaxNum + 2
	}
}

// WithTagMinLen sets the minimum canonicalised tag length.
func WithTagMinLen(min int) OptionFunc {
	return func(o *Options) {
		if min >= 0 {
			o.TagMinLen = min
		}
	}
}

// WithUserMsgMax sets the maximum user_msg length.
func WithUserMsgMax(max int) OptionFunc {
	return func(o *Options) {
		if max > 0 {
			o.UserMsgMax = max
		}
	}
}

// WithChecksumLimits sets the checksum slot count and per-slot max length.
func WithChecksumLimits(maxNum, maxLen int) OptionFunc {
	return func(o *Options) {
		if maxNum > 0 {
			o.ChecksumMaxNum = maxNum
		}
		if maxLen > 0 {
			o.ChecksumMaxLen = maxLen
		}
	}
}

// WithExtractLimits sets the extract sample count and per-sample max size.
func WithExtractLimits(maxNum, sizeMax int) OptionFunc {
	return func(o *Options) {
		if maxNum > 0 {
			o.ExtractMaxNum = maxNum
		}
		if sizeMax > 0 {
			o.ExtractSizeMax = sizeMax
		}
	}
}

// WithFileSizeMax sets the maximum file_size an entry may record.
func WithFileSizeMax(max int64) OptionFunc {
	return func(o *Options) {
		if max > 0 {
			o.FileSizeMax = max
		}
	}
}

// WithVerbose sets the Verbose field.
func WithVerbose(verbose bool) OptionFunc {
	return func(o *Options) {
		o.Verbose = verbose
	}
}

// WithProgressEvery sets the progress-logging interval, in entries. A value
// of zero disables progress logging.
func WithProgressEvery(every int) OptionFunc {
	return func(o *Options) {
		if every >= 0 {
			o.ProgressEvery = every
		}
	}
}
