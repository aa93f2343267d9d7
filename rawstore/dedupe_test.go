package rawstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"penelope-webhooks/normalizer"
)

func TestBuildDedupeKey_ProviderEventIDIsDeterministic(t *testing.T) {
	hints := normalizer.Hints{ProviderEventID: "ev-42"}
	k1 := BuildDedupeKey("A", normalizer.KindMessage, hints, `{"eventId":"ev-42"}`)
	k2 := BuildDedupeKey("A", normalizer.KindMessage, hints, `{"eventId":"ev-42"}`)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestBuildDedupeKey_DiffersByAppID(t *testing.T) {
	hints := normalizer.Hints{ProviderEventID: "ev-42"}
	k1 := BuildDedupeKey("A", normalizer.KindMessage, hints, "")
	k2 := BuildDedupeKey("B", normalizer.KindMessage, hints, "")
	assert.NotEqual(t, k1, k2)
}

func TestBuildDedupeKey_FallsBackToMessageIDTriple(t *testing.T) {
	ts := time.Unix(1739112000, 0).UTC()
	hints := normalizer.Hints{MessageID: "gs-1", EventStatus: "delivered", EventAt: &ts}
	k1 := BuildDedupeKey("A", normalizer.KindMessage, hints, "ignored-body")
	k2 := BuildDedupeKey("A", normalizer.KindMessage, hints, "different-body")
	assert.Equal(t, k1, k2, "message/status/timestamp triple should dominate raw body once present")
}

func TestBuildDedupeKey_FallsBackToRawBody(t *testing.T) {
	hints := normalizer.Hints{}
	k1 := BuildDedupeKey("A", normalizer.KindUnknown, hints, "same body")
	k2 := BuildDedupeKey("A", normalizer.KindUnknown, hints, "same body")
	k3 := BuildDedupeKey("A", normalizer.KindUnknown, hints, "different body")
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}
