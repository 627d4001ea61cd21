package utils

import (
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// ChecksumReader hashes everything read through it, so a file can be parsed
// and fingerprinted in a single pass.
type ChecksumReader struct {
	r      io.Reader
	digest *xxhash.Digest
}

// NewChecksumReader wraps r.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	d := xxhash.New()
	return &ChecksumReader{r: io.TeeReader(r, d), digest: d}
}

func (c *ChecksumReader) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

// Sum returns the hex xxhash digest of the bytes read so far.
func (c *ChecksumReader) Sum() string {
	return hex.EncodeToString(c.digest.Sum(nil))
}
