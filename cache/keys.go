package cache

import (
	"encoding/binary"
	"hash/fnv"
)

// Key fingerprints one compile: the record store version, the dialect, and
// the template text. Any registration bumps the store version, so stale
// resolutions never collide with fresh ones.
func Key(storeVersion uint64, dialect, template string) uint64 {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], storeVersion)

	h := fnv.New64a()
	_, _ = h.Write(v[:])
	_, _ = h.Write([]byte(dialect))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(template))
	return h.Sum64()
}
