package sqlstore

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func outgoingWebhookHandlers() repository.ModelHandlers[*outgoingWebhookRecord] {
	return repository.ModelHandlers[*outgoingWebhookRecord]{
		NewRecord: func() *outgoingWebhookRecord {
			return &outgoingWebhookRecord{}
		},
		GetID: func(record *outgoingWebhookRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *outgoingWebhookRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *outgoingWebhookRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func announcementDeliveryHandlers() repository.ModelHandlers[*announcementDeliveryRecord] {
	return repository.ModelHandlers[*announcementDeliveryRecord]{
		NewRecord: func() *announcementDeliveryRecord {
			return &announcementDeliveryRecord{}
		},
		GetID: func(record *announcementDeliveryRecord) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return parseUUID(record.ID)
		},
		SetID: func(record *announcementDeliveryRecord, id uuid.UUID) {
			if record == nil {
				return
			}
			record.ID = id.String()
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *announcementDeliveryRecord) string {
			if record == nil {
				return ""
			}
			return strings.TrimSpace(record.ID)
		},
	}
}

func parseUUID(value string) uuid.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
