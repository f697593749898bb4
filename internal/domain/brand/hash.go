package brand

import "hash/fnv"

// Hash32 returns the 32-bit FNV-1a hash of the lower-cased UTF-8 bytes of s.
//
// This is the single deterministic hash used everywhere the engine needs
// brand- or response-seeded pseudo-randomness (strength jitter, grade jitter,
// simulated position variation).  The function is versioned by this contract:
// changing it invalidates every recorded fixture, so treat it as frozen.
func Hash32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(lower(s)))
	return h.Sum32()
}

// lower is an ASCII-only lower-casing to keep the hash independent of
// locale-specific case folding.
func lower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
