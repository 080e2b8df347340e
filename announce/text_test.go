package announce

import (
	"testing"
	"time"

	"github.com/goliatone/go-announce/core"
	"github.com/goliatone/go-announce/events"
)

func strPtr(value string) *string {
	return &value
}

func TestScreenNameOrFallback(t *testing.T) {
	if got := ScreenNameOrFallback(nil); got != "Jemand" {
		t.Fatalf("expected fallback for nil name, got %q", got)
	}
	if got := ScreenNameOrFallback(strPtr("")); got != "Jemand" {
		t.Fatalf("expected fallback for empty name, got %q", got)
	}
	if got := ScreenNameOrFallback(strPtr("   ")); got != "Jemand" {
		t.Fatalf("expected fallback for blank name, got %q", got)
	}
	if got := ScreenNameOrFallback(strPtr("Anna")); got != "Anna" {
		t.Fatalf("expected name returned unchanged, got %q", got)
	}
}

func TestUserBadgeAwardedText(t *testing.T) {
	event := events.UserBadgeAwarded{
		Base: events.Base{
			OccurredAt: time.Now().UTC(),
			Initiator:  core.UserRef{ID: "admin-1"},
		},
		Awardee:    core.UserRef{ID: "user-1", ScreenName: strPtr("Anna")},
		BadgeLabel: "Veteran",
	}

	builder := DefaultTextBuilders()[events.KindUserBadgeAwarded]
	text, err := builder(event)
	if err != nil {
		t.Fatalf("build badge text: %v", err)
	}
	expected := `Jemand hat das Abzeichen "Veteran" an Anna verliehen.`
	if text != expected {
		t.Fatalf("expected %q, got %q", expected, text)
	}
}

func TestRoleTexts(t *testing.T) {
	assigned := events.RoleAssignedToUser{
		Base: events.Base{
			Initiator: core.UserRef{ID: "admin-1", ScreenName: strPtr("AuthzAdmin")},
		},
		User:   core.UserRef{ID: "user-1", ScreenName: strPtr("FreshOrga")},
		RoleID: "orga",
	}
	builder := DefaultTextBuilders()[events.KindRoleAssignedToUser]
	text, err := builder(assigned)
	if err != nil {
		t.Fatalf("build role assigned text: %v", err)
	}
	expected := `AuthzAdmin hat FreshOrga die Rolle "orga" zugewiesen.`
	if text != expected {
		t.Fatalf("expected %q, got %q", expected, text)
	}

	deassigned := events.RoleDeassignedFromUser{
		Base: events.Base{
			Initiator: core.UserRef{ID: "admin-1", ScreenName: strPtr("AuthzAdmin")},
		},
		User:   core.UserRef{ID: "user-2", ScreenName: strPtr("FormerOrga")},
		RoleID: "board_moderator",
	}
	builder = DefaultTextBuilders()[events.KindRoleDeassignedFromUser]
	text, err = builder(deassigned)
	if err != nil {
		t.Fatalf("build role deassigned text: %v", err)
	}
	expected = `AuthzAdmin hat FormerOrga die Rolle "board_moderator" entzogen.`
	if text != expected {
		t.Fatalf("expected %q, got %q", expected, text)
	}
}

func TestGuestServerRegisteredText(t *testing.T) {
	event := events.GuestServerRegistered{
		Base: events.Base{
			Initiator: core.UserRef{ID: "admin-1", ScreenName: strPtr("Admin")},
		},
		Owner: core.UserRef{ID: "user-1", ScreenName: strPtr("User")},
	}
	builder := DefaultTextBuilders()[events.KindGuestServerRegistered]
	text, err := builder(event)
	if err != nil {
		t.Fatalf("build guest server text: %v", err)
	}
	expected := "Admin hat einen Gastserver von User registriert."
	if text != expected {
		t.Fatalf("expected %q, got %q", expected, text)
	}
}

func TestTextBuilderRejectsWrongEventType(t *testing.T) {
	builder := DefaultTextBuilders()[events.KindUserBadgeAwarded]
	_, err := builder(events.GuestServerApproved{})
	if err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestEveryKindWithVisibilityHasTextBuilder(t *testing.T) {
	builders := DefaultTextBuilders()
	for kind := range DefaultVisibilityTable() {
		if _, ok := builders[kind]; !ok {
			t.Fatalf("event kind %q has a visibility but no text builder", string(kind))
		}
	}
}
