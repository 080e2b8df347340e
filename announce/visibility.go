package announce

import (
	"github.com/goliatone/go-announce/core"
	"github.com/goliatone/go-announce/events"
)

// DefaultVisibilityTable maps each known event kind to the named scopes it
// is relevant to. The table is static and exhaustive; a kind missing here is
// a configuration gap, not an error.
func DefaultVisibilityTable() map[core.EventKind][]core.Visibility {
	return map[core.EventKind][]core.Visibility{
		events.KindUserAccountCreated:        {core.VisibilityOrgaLog},
		events.KindUserAccountDeleted:        {core.VisibilityOrgaLog},
		events.KindUserAccountSuspended:      {core.VisibilityOrgaLog},
		events.KindUserAccountUnsuspended:    {core.VisibilityOrgaLog},
		events.KindUserEmailAddressConfirmed: {core.VisibilityOrgaLog},
		events.KindUserScreenNameChanged:     {core.VisibilityOrgaLog},
		events.KindUserBadgeAwarded:          {core.VisibilityOrgaLog},
		events.KindRoleAssignedToUser:        {core.VisibilityOrgaLog},
		events.KindRoleDeassignedFromUser:    {core.VisibilityOrgaLog},
		events.KindGuestServerRegistered:     {core.VisibilityOrgaLog},
		events.KindGuestServerApproved:       {core.VisibilityOrgaLog},
		events.KindGuestServerCheckedIn:      {core.VisibilityOrgaLog},
		events.KindGuestServerCheckedOut:     {core.VisibilityOrgaLog},
		events.KindNewsItemPublished:         {core.VisibilityPublic},
		events.KindShopOrderPlaced:           {core.VisibilityOrgaLog},
		events.KindShopOrderCanceled:         {core.VisibilityOrgaLog},
		events.KindShopOrderPaid:             {core.VisibilityOrgaLog},
		events.KindBoardTopicCreated:         {core.VisibilityBoard, core.VisibilityOrgaLog},
	}
}

// VisibilityResolver answers which named scopes an event is relevant to,
// purely from the event's kind.
type VisibilityResolver struct {
	logger core.Logger
	table  map[core.EventKind][]core.Visibility
}

func NewVisibilityResolver(logger core.Logger, table map[core.EventKind][]core.Visibility) *VisibilityResolver {
	if table == nil {
		table = DefaultVisibilityTable()
	}
	copied := make(map[core.EventKind][]core.Visibility, len(table))
	for kind, visibilities := range table {
		copied[kind] = append([]core.Visibility(nil), visibilities...)
	}
	return &VisibilityResolver{
		logger: logger,
		table:  copied,
	}
}

// Resolve returns the visibilities for the event's kind. A kind absent from
// the table logs a warning and resolves to an empty set.
func (r *VisibilityResolver) Resolve(event core.Event) []core.Visibility {
	if r == nil || event == nil {
		return nil
	}
	visibilities, ok := r.table[event.Kind()]
	if !ok {
		if r.logger != nil {
			r.logger.Warn("no visibility assigned for event type", "event_kind", string(event.Kind()))
		}
		return nil
	}
	return append([]core.Visibility(nil), visibilities...)
}
