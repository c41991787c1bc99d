// Package checksum provides the host-supplied checksum and extract
// collaborator used when building a file-data or section record. Computing
// checksums and sampling extracts from real file content is out of scope for
// the catalog engine itself (spec §5 Non-goals); this package defines the
// plug-in shape the engine consumes and a default implementation callers can
// use as-is or replace with their own (a streaming crawler, a hardware
// digest accelerator, a network-backed extractor).
package checksum

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"
)

// Digest holds the three checksum families a file-data/section record keeps
// (spec §6: slot 0 SHA-1, slot 1 SHA-256, slot 2 SHA-512).
type Digest struct {
	SHA1   [sha1.Size]byte
	SHA256 [sha256.Size]byte
	SHA512 [sha512.Size]byte
}

// Func computes the checksum digest of a byte slice. Implementations must
// be side-effect free and safe for concurrent use by multiple goroutines
// reading independent slices.
type Func func(data []byte) Digest

// Extract is a single sampled byte range from a file, as stored alongside
// an entry's checksums (spec §3, ExtractMaxNum/ExtractSizeMax in
// pkg/options).
type Extract struct {
	Offset int64
	Data   []byte
}

// ExtractFunc samples up to maxNum extracts of at most maxSize bytes each
// from data.
type ExtractFunc func(data []byte, maxNum, maxSize int) []Extract

// Default computes a Digest using the standard library's SHA-1/256/512
// implementations. Third-party cryptographic packages (golang.org/x/crypto)
// have no role here: the engine treats checksum computation as a pure,
// host-supplied collaborator, and Go's standard library already implements
// all three digests the format reserves slots for.
func Default(data []byte) Digest {
	return Digest{
		SHA1:   sha1.Sum(data),
		SHA256: sha256.Sum256(data),
		SHA512: sha512.Sum512(data),
	}
}

// DefaultExtracts samples up to maxNum extracts of at most maxSize bytes
// from data, at offsets drawn uniformly via crypto/rand so repeated calls
// over the same file don't always sample the same bytes.
func DefaultExtracts(data []byte, maxNum, maxSize int) []Extract {
	if len(data) == 0 || maxNum <= 0 || maxSize <= 0 {
		return nil
	}

	extracts := make([]Extract, 0, maxNum)
	for i := 0; i < maxNum; i++ {
		size := maxSize
		if size > len(data) {
			size = len(data)
		}

		maxOffset := int64(len(data) - size)
		offset := int64(0)
		if maxOffset > 0 {
			n, err := rand.Int(rand.Reader, big.NewInt(maxOffset+1))
			if err != nil {
				continue
			}
			offset = n.Int64()
		}

		buf := make([]byte, size)
		copy(buf, data[offset:offset+int64(size)])
		extracts = append(extracts, Extract{Offset: offset, Data: buf})
	}
	return extracts
}
