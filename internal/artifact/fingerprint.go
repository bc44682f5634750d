package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// ComputeFingerprint hashes a stage's inputs, parameters, and tool
// versions into one hex digest. Map ordering never affects the result:
// maps are serialized with sorted keys. Inputs are hashed in the order
// given, so reordering them changes the digest (callers are expected to
// pass them in a canonical order, e.g. sorted file paths).
func ComputeFingerprint(inputs []string, params map[string]string, toolVersions map[string]string) string {
	h := sha256.New()
	for _, in := range inputs {
		h.Write([]byte("input:"))
		h.Write([]byte(in))
		h.Write([]byte{0})
	}
	writeSortedMap(h, "param", params)
	writeSortedMap(h, "tool", toolVersions)
	return hex.EncodeToString(h.Sum(nil))
}

func writeSortedMap(h interface{ Write([]byte) (int, error) }, prefix string, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(prefix))
		h.Write([]byte{':'})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(m[k]))
		h.Write([]byte{0})
	}
}

// CanonicalParams renders a typed parameter struct's exported fields into
// the map ComputeFingerprint expects, via ToCanonicalBytes, so that a
// stage's parameters feed into its fingerprint without hand-rolling a map
// for every stage. Callers implement ToCanonicalBytes themselves; this
// just names the convention.
type CanonicalParams interface {
	ToCanonicalBytes() []byte
}

// FingerprintParams hashes a CanonicalParams value into the single
// "params" entry ComputeFingerprint's params map expects.
func FingerprintParams(p CanonicalParams) map[string]string {
	if p == nil {
		return nil
	}
	sum := sha256.Sum256(p.ToCanonicalBytes())
	return map[string]string{"canonical": hex.EncodeToString(sum[:])}
}
