package announce

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-announce/core"
	"github.com/goliatone/go-announce/events"
)

// FallbackScreenName substitutes for missing display names in announcement
// texts.
const FallbackScreenName = "Jemand"

// ScreenNameOrFallback returns the screen name or the fallback value. Every
// text builder must route display names through this helper so null handling
// stays consistent across event kinds.
func ScreenNameOrFallback(screenName *string) string {
	if screenName == nil || strings.TrimSpace(*screenName) == "" {
		return FallbackScreenName
	}
	return *screenName
}

// TextBuilder renders a human-readable announcement for one event kind.
type TextBuilder func(event core.Event) (string, error)

// DefaultTextBuilders is the explicit kind-to-builder table. Announcing an
// event works exactly when its kind is registered here; new kinds are added
// by extending this table, not by runtime registration.
func DefaultTextBuilders() map[core.EventKind]TextBuilder {
	return map[core.EventKind]TextBuilder{
		events.KindUserAccountCreated:        typedBuilder(userAccountCreatedText),
		events.KindUserAccountDeleted:        typedBuilder(userAccountDeletedText),
		events.KindUserAccountSuspended:      typedBuilder(userAccountSuspendedText),
		events.KindUserAccountUnsuspended:    typedBuilder(userAccountUnsuspendedText),
		events.KindUserEmailAddressConfirmed: typedBuilder(userEmailAddressConfirmedText),
		events.KindUserScreenNameChanged:     typedBuilder(userScreenNameChangedText),
		events.KindUserBadgeAwarded:          typedBuilder(userBadgeAwardedText),
		events.KindRoleAssignedToUser:        typedBuilder(roleAssignedToUserText),
		events.KindRoleDeassignedFromUser:    typedBuilder(roleDeassignedFromUserText),
		events.KindGuestServerRegistered:     typedBuilder(guestServerRegisteredText),
		events.KindGuestServerApproved:       typedBuilder(guestServerApprovedText),
		events.KindGuestServerCheckedIn:      typedBuilder(guestServerCheckedInText),
		events.KindGuestServerCheckedOut:     typedBuilder(guestServerCheckedOutText),
		events.KindNewsItemPublished:         typedBuilder(newsItemPublishedText),
		events.KindShopOrderPlaced:           typedBuilder(shopOrderPlacedText),
		events.KindShopOrderCanceled:         typedBuilder(shopOrderCanceledText),
		events.KindShopOrderPaid:             typedBuilder(shopOrderPaidText),
		events.KindBoardTopicCreated:         typedBuilder(boardTopicCreatedText),
	}
}

func typedBuilder[E core.Event](build func(E) string) TextBuilder {
	return func(event core.Event) (string, error) {
		typed, ok := event.(E)
		if !ok {
			return "", fmt.Errorf("announce: unexpected event type %T for kind %q", event, string(event.Kind()))
		}
		return build(typed), nil
	}
}

func initiatorName(event core.Event) string {
	return ScreenNameOrFallback(event.InitiatedBy().ScreenName)
}

func userAccountCreatedText(event events.UserAccountCreated) string {
	return fmt.Sprintf(
		"%s hat das Benutzerkonto %q angelegt.",
		initiatorName(event),
		ScreenNameOrFallback(event.User.ScreenName),
	)
}

func userAccountDeletedText(event events.UserAccountDeleted) string {
	return fmt.Sprintf(
		"%s hat das Benutzerkonto %q gelöscht.",
		initiatorName(event),
		ScreenNameOrFallback(event.User.ScreenName),
	)
}

func userAccountSuspendedText(event events.UserAccountSuspended) string {
	return fmt.Sprintf(
		"%s hat das Benutzerkonto %q gesperrt.",
		initiatorName(event),
		ScreenNameOrFallback(event.User.ScreenName),
	)
}

func userAccountUnsuspendedText(event events.UserAccountUnsuspended) string {
	return fmt.Sprintf(
		"%s hat das Benutzerkonto %q entsperrt.",
		initiatorName(event),
		ScreenNameOrFallback(event.User.ScreenName),
	)
}

func userEmailAddressConfirmedText(event events.UserEmailAddressConfirmed) string {
	return fmt.Sprintf(
		"%s hat die E-Mail-Adresse bestätigt.",
		ScreenNameOrFallback(event.User.ScreenName),
	)
}

func userScreenNameChangedText(event events.UserScreenNameChanged) string {
	return fmt.Sprintf(
		"%s hat den Benutzernamen %q in %q geändert.",
		initiatorName(event),
		event.OldScreenName,
		event.NewScreenName,
	)
}

func userBadgeAwardedText(event events.UserBadgeAwarded) string {
	return fmt.Sprintf(
		"%s hat das Abzeichen %q an %s verliehen.",
		initiatorName(event),
		event.BadgeLabel,
		ScreenNameOrFallback(event.Awardee.ScreenName),
	)
}

func roleAssignedToUserText(event events.RoleAssignedToUser) string {
	return fmt.Sprintf(
		"%s hat %s die Rolle %q zugewiesen.",
		initiatorName(event),
		ScreenNameOrFallback(event.User.ScreenName),
		event.RoleID,
	)
}

func roleDeassignedFromUserText(event events.RoleDeassignedFromUser) string {
	return fmt.Sprintf(
		"%s hat %s die Rolle %q entzogen.",
		initiatorName(event),
		ScreenNameOrFallback(event.User.ScreenName),
		event.RoleID,
	)
}

func guestServerRegisteredText(event events.GuestServerRegistered) string {
	return fmt.Sprintf(
		"%s hat einen Gastserver von %s registriert.",
		initiatorName(event),
		ScreenNameOrFallback(event.Owner.ScreenName),
	)
}

func guestServerApprovedText(event events.GuestServerApproved) string {
	return fmt.Sprintf(
		"%s hat einen Gastserver von %s genehmigt.",
		initiatorName(event),
		ScreenNameOrFallback(event.Owner.ScreenName),
	)
}

func guestServerCheckedInText(event events.GuestServerCheckedIn) string {
	return fmt.Sprintf(
		"%s hat einen Gastserver von %s in Betrieb genommen.",
		initiatorName(event),
		ScreenNameOrFallback(event.Owner.ScreenName),
	)
}

func guestServerCheckedOutText(event events.GuestServerCheckedOut) string {
	return fmt.Sprintf(
		"%s hat einen Gastserver von %s außer Betrieb genommen.",
		initiatorName(event),
		ScreenNameOrFallback(event.Owner.ScreenName),
	)
}

func newsItemPublishedText(event events.NewsItemPublished) string {
	text := fmt.Sprintf("Die News %q wurde veröffentlicht.", event.Title)
	if strings.TrimSpace(event.ExternalURL) != "" {
		text += " " + strings.TrimSpace(event.ExternalURL)
	}
	return text
}

func shopOrderPlacedText(event events.ShopOrderPlaced) string {
	return fmt.Sprintf(
		"%s hat Bestellung %s aufgegeben.",
		ScreenNameOrFallback(event.Orderer.ScreenName),
		event.OrderNumber,
	)
}

func shopOrderCanceledText(event events.ShopOrderCanceled) string {
	return fmt.Sprintf(
		"%s hat Bestellung %s storniert.",
		initiatorName(event),
		event.OrderNumber,
	)
}

func shopOrderPaidText(event events.ShopOrderPaid) string {
	return fmt.Sprintf(
		"%s hat Bestellung %s als bezahlt markiert.",
		initiatorName(event),
		event.OrderNumber,
	)
}

func boardTopicCreatedText(event events.BoardTopicCreated) string {
	text := fmt.Sprintf(
		"%s hat das Thema %q erstellt.",
		ScreenNameOrFallback(event.Creator.ScreenName),
		event.TopicTitle,
	)
	if strings.TrimSpace(event.TopicURL) != "" {
		text += " " + strings.TrimSpace(event.TopicURL)
	}
	return text
}
