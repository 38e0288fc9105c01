package value

import "hash/fnv"

// PhraseId is a stable 64-bit identifier for a phrase name, computed with
// FNV-1a. It is safe to compute at compile time (constant folding aside)
// and to ship across process boundaries.
type PhraseId uint64

// PhraseIdFromName hashes a phrase name with FNV-1a 64, matching the
// standard basis/prime bit-for-bit (0xcbf29ce484222325, 0x100000001b3).
func PhraseIdFromName(name string) PhraseId {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return PhraseId(h.Sum64())
}
