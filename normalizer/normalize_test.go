package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

// A delivery-receipt payload carrying a provider event id normalizes to
// a MESSAGE event with the delivered status and its event id as a hint.
func TestNormalize_MessageDelivered(t *testing.T) {
	raw := decode(t, `{"statuses":[{"id":"gs-1","status":"delivered","timestamp":"1739112000"}],"eventId":"ev-42"}`)
	result := Normalize(raw)

	require.Equal(t, KindMessage, result.Kind)
	require.NotNil(t, result.Message)
	assert.Equal(t, "gs-1", result.Message.MessageID)
	assert.Equal(t, "delivered", result.Message.Status)
	require.NotNil(t, result.Message.EventAt)
	assert.Equal(t, "ev-42", result.Hints.ProviderEventID)
}

// A failed delivery receipt carries its error code and reason through.
func TestNormalize_MessageFailedCarriesError(t *testing.T) {
	raw := decode(t, `{"statuses":[{"id":"gs-x","status":"failed","errors":[{"code":"131051","message":"Unsupported"}]}]}`)
	result := Normalize(raw)

	require.Equal(t, KindMessage, result.Kind)
	require.NotNil(t, result.Message)
	assert.Equal(t, "failed", result.Message.Status)
	assert.Equal(t, "131051", result.Message.ErrorCode)
	assert.Equal(t, "Unsupported", result.Message.ErrorReason)
}

// A template lifecycle payload resolves to a TEMPLATE event.
func TestNormalize_TemplateApproved(t *testing.T) {
	raw := decode(t, `{"template":{"id":"tpl-1","status":"APPROVED"},"event":"template_status"}`)
	result := Normalize(raw)

	require.Equal(t, KindTemplate, result.Kind)
	require.NotNil(t, result.Template)
	assert.Equal(t, "tpl-1", result.Template.TemplateProviderID)
	assert.Equal(t, "APPROVED", result.Template.Status)
	assert.Empty(t, result.Template.RejectionReason)
}

func TestNormalize_TemplateRejectedCarriesReason(t *testing.T) {
	raw := decode(t, `{"template":{"name":"promo_q3","status":"REJECTED","rejectionReason":"INVALID_FORMAT"},"event":"template_status"}`)
	result := Normalize(raw)

	require.Equal(t, KindTemplate, result.Kind)
	assert.Equal(t, "promo_q3", result.Template.TemplateName)
	assert.Equal(t, "REJECTED", result.Template.Status)
	assert.Equal(t, "INVALID_FORMAT", result.Template.RejectionReason)
}

// A consent event with a phone number and an epoch timestamp normalizes
// to a USER event.
func TestNormalize_UserBlocked(t *testing.T) {
	raw := decode(t, `{"event":"BLOCKED","phone":"+15551234567","timestamp":1739112000}`)
	result := Normalize(raw)

	require.Equal(t, KindUser, result.Kind)
	require.NotNil(t, result.User)
	assert.Equal(t, "+15551234567", result.User.Phone)
	assert.Equal(t, "BLOCKED", result.User.ConsentStatus)
	require.NotNil(t, result.User.EventAt)
}

func TestNormalize_Unknown(t *testing.T) {
	raw := decode(t, `{"foo":"bar"}`)
	result := Normalize(raw)
	assert.Equal(t, KindUnknown, result.Kind)
}

func TestNormalize_UnrecognizedStatusIsUnknown(t *testing.T) {
	raw := decode(t, `{"statuses":[{"id":"gs-9","status":"weird_token"}]}`)
	result := Normalize(raw)
	assert.Equal(t, KindUnknown, result.Kind)
}
