package command

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-announce/core"
)

func TestAnnounceEventCommand_NilServiceReturnsRichError(t *testing.T) {
	var cmd *AnnounceEventCommand
	err := cmd.Execute(context.Background(), AnnounceEventMessage{})
	if err == nil {
		t.Fatalf("expected command dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.AnnounceErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.AnnounceErrorInternal, rich.TextCode)
	}
}

func TestCreateWebhookCommand_NilWriterReturnsRichError(t *testing.T) {
	var cmd *CreateWebhookCommand
	err := cmd.Execute(context.Background(), CreateWebhookMessage{})
	if err == nil {
		t.Fatalf("expected command dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
