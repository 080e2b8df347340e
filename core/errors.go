package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AnnounceErrorBadInput        = "ANNOUNCE_BAD_INPUT"
	AnnounceErrorUnknownFormat   = "ANNOUNCE_UNKNOWN_FORMAT"
	AnnounceErrorWebhookNotFound = "ANNOUNCE_WEBHOOK_NOT_FOUND"
	AnnounceErrorWebhookConflict = "ANNOUNCE_WEBHOOK_CONFLICT"
	AnnounceErrorQueueFull       = "ANNOUNCE_QUEUE_FULL"
	AnnounceErrorInternal        = "ANNOUNCE_INTERNAL_ERROR"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

func AnnounceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAnnounceErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "invalid webhook format"), strings.Contains(msg, "no payload formatter"):
		return newAnnounceError(err.Error(), goerrors.CategoryOperation, AnnounceErrorUnknownFormat)
	case strings.Contains(msg, "webhook not found"):
		return newAnnounceError(err.Error(), goerrors.CategoryNotFound, AnnounceErrorWebhookNotFound)
	case strings.Contains(msg, "already configured"), strings.Contains(msg, "unique constraint"):
		return newAnnounceError(err.Error(), goerrors.CategoryConflict, AnnounceErrorWebhookConflict)
	case strings.Contains(msg, "queue is full"), strings.Contains(msg, "queue is closed"):
		return newAnnounceError(err.Error(), goerrors.CategoryRateLimit, AnnounceErrorQueueFull)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "mismatch"):
		return newAnnounceError(err.Error(), goerrors.CategoryBadInput, AnnounceErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAnnounceErrorEnvelope(mapped)
}

func newAnnounceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAnnounceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureAnnounceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = announceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAnnounceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAnnounceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AnnounceErrorBadInput
	case goerrors.CategoryNotFound:
		return AnnounceErrorWebhookNotFound
	case goerrors.CategoryConflict:
		return AnnounceErrorWebhookConflict
	case goerrors.CategoryRateLimit:
		return AnnounceErrorQueueFull
	case goerrors.CategoryOperation:
		return AnnounceErrorUnknownFormat
	default:
		return AnnounceErrorInternal
	}
}

func announceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryOperation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
