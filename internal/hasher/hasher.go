package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the hash length recorded in manifests: 16 hex chars (64 bits).
const HexLen = 16

// Sum returns the xxHash64 of data as hex, truncated to hexLen when
// 0 < hexLen < 16.
func Sum(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// File streams the file at path through xxHash64.
func File(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return format(h.Sum64(), hexLen), nil
}

func format(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
