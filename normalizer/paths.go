package normalizer

// Path lists are tried in order; the first non-empty hit wins. They cover
// the common Gupshup/WhatsApp-Cloud-API-shaped payloads this ingress
// actually receives: a top-level "statuses[]" array for delivery
// receipts, a top-level "template" object for template lifecycle
// updates, and flat top-level fields for consent/user events.

var messageIDPaths = []string{
	"statuses[0].id",
	"statuses[0].messageId",
	"messages[0].id",
	"entry[0].changes[0].value.statuses[0].id",
	"entry[0].changes[0].value.messages[0].id",
	"payload.id",
	"messageId",
	"id",
}

var whatsappMessageIDPaths = []string{
	"statuses[0].gsId",
	"statuses[0].gs_id",
	"statuses[0].wamid",
	"messages[0].wamid",
	"payload.wamid",
	"whatsappMessageId",
	"wamid",
}

var messageStatusPaths = []string{
	"statuses[0].status",
	"entry[0].changes[0].value.statuses[0].status",
	"payload.type",
	"status",
	"type",
}

var messageTimestampPaths = []string{
	"statuses[0].timestamp",
	"entry[0].changes[0].value.statuses[0].timestamp",
	"payload.timestamp",
	"timestamp",
	"eventAt",
}

var errorCodePaths = []string{
	"statuses[0].errors[0].code",
	"payload.payload.code",
	"errors[0].code",
}

var errorReasonPaths = []string{
	"statuses[0].errors[0].message",
	"statuses[0].errors[0].title",
	"payload.payload.reason",
	"errors[0].message",
}

var providerEventIDPaths = []string{
	"eventId",
	"event_id",
	"id",
}

var templateNamePaths = []string{
	"template.name",
	"templateName",
	"payload.template.name",
}

var templateProviderIDPaths = []string{
	"template.id",
	"templateId",
	"payload.template.id",
}

var templateLanguagePaths = []string{
	"template.language",
	"templateLanguage",
	"payload.template.language",
}

var templateStatusPaths = []string{
	"template.status",
	"templateStatus",
	"payload.template.status",
	"status",
}

var templateRejectionReasonPaths = []string{
	"template.rejectionReason",
	"template.reason",
	"rejectionReason",
}

var templateCorrectCategoryPaths = []string{
	"template.correctCategory",
	"correctCategory",
}

var consentTokenPaths = []string{
	"event",
	"status",
	"consentStatus",
	"type",
}

var phonePaths = []string{
	"phone",
	"phoneNumber",
	"msisdn",
	"contacts[0].wa_id",
	"waId",
}

// BFS fallback allowlists (case-insensitive key match).
var messageIDKeys = []string{"id", "messageid", "message_id"}
var whatsappMessageIDKeys = []string{"wamid", "whatsappmessageid", "whatsapp_message_id", "gsid", "gs_id"}
var messageStatusKeys = []string{"status", "type"}
var timestampKeys = []string{"timestamp", "ts", "eventat", "event_at"}
var errorCodeKeys = []string{"code", "errorcode"}
var errorReasonKeys = []string{"message", "reason", "title"}
var providerEventIDKeys = []string{"eventid", "event_id", "providereventid"}
var templateNameKeys = []string{"templatename", "template_name", "name"}
var templateProviderIDKeys = []string{"templateid", "template_id", "templateproviderid"}
var templateStatusKeys = []string{"templatestatus", "template_status", "status"}
var consentTokenKeys = []string{"event", "status", "consentstatus", "type"}
var phoneKeys = []string{"phone", "phonenumber", "msisdn", "waid", "wa_id"}
