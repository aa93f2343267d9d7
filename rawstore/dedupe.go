package rawstore

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"penelope-webhooks/normalizer"
)

// BuildDedupeKey computes the deterministic dedupe key material described
// in the ingest contract and returns its SHA-256 hex digest. Identical
// inputs under the same branch always yield the same key, across server
// restarts, which is what makes at-ingest dedupe reliable.
func BuildDedupeKey(appID string, kind normalizer.Kind, hints normalizer.Hints, rawBody string) string {
	material := dedupeMaterial(appID, kind, hints, rawBody)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

func dedupeMaterial(appID string, kind normalizer.Kind, hints normalizer.Hints, rawBody string) string {
	if hints.ProviderEventID != "" {
		return appID + "|" + string(kind) + "|" + hints.ProviderEventID
	}

	if hints.MessageID != "" || hints.EventStatus != "" || hints.EventAt != nil {
		ts := ""
		if hints.EventAt != nil {
			ts = hints.EventAt.UTC().Format(time.RFC3339Nano)
		}
		return appID + "|" + string(kind) + "|" + hints.MessageID + "|" + hints.EventStatus + "|" + ts
	}

	return rawBody
}
