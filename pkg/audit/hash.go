package audit

import (
	"crypto/sha256"
	"encoding/hex"

	"pfs-obs/blackout/pkg/fiberconf"
)

// HashConfig computes the SHA-256 hash of the record set's canonical JSON
// form and returns it hex-encoded. The same serialization is used for
// persistence, so the hash matches what ends up on disk.
func HashConfig(cfg *fiberconf.FiberConfig) (string, error) {
	data, err := fiberconf.Marshal(cfg)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
