package project

import (
	"crypto/sha256"
	"fmt"
)

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine hashes content followed by deps. Callers keep deps in a
// deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// OptionsDigest fingerprints the analysis-relevant options so cache
// entries never outlive a configuration change.
func OptionsDigest(a AnalyzerConfig) Digest {
	return DigestOf(fmt.Appendf(nil, "%+v", a))
}

func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:])
}
