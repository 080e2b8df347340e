package events

import (
	"time"

	"github.com/goliatone/go-announce/core"
)

const (
	KindUserAccountCreated        core.EventKind = "user-account-created"
	KindUserAccountDeleted        core.EventKind = "user-account-deleted"
	KindUserAccountSuspended      core.EventKind = "user-account-suspended"
	KindUserAccountUnsuspended    core.EventKind = "user-account-unsuspended"
	KindUserEmailAddressConfirmed core.EventKind = "user-email-address-confirmed"
	KindUserScreenNameChanged     core.EventKind = "user-screen-name-changed"
	KindUserBadgeAwarded          core.EventKind = "user-badge-awarded"
	KindRoleAssignedToUser        core.EventKind = "role-assigned-to-user"
	KindRoleDeassignedFromUser    core.EventKind = "role-deassigned-from-user"
	KindGuestServerRegistered     core.EventKind = "guest-server-registered"
	KindGuestServerApproved       core.EventKind = "guest-server-approved"
	KindGuestServerCheckedIn      core.EventKind = "guest-server-checked-in"
	KindGuestServerCheckedOut     core.EventKind = "guest-server-checked-out"
	KindNewsItemPublished         core.EventKind = "news-item-published"
	KindShopOrderPlaced           core.EventKind = "shop-order-placed"
	KindShopOrderCanceled         core.EventKind = "shop-order-canceled"
	KindShopOrderPaid             core.EventKind = "shop-order-paid"
	KindBoardTopicCreated         core.EventKind = "board-topic-created"
)

// Base carries the fields shared by every event variant.
type Base struct {
	OccurredAt time.Time
	Initiator  core.UserRef
}

func (b Base) Occurred() time.Time {
	return b.OccurredAt
}

func (b Base) InitiatedBy() core.UserRef {
	return b.Initiator
}

type UserAccountCreated struct {
	Base
	User core.UserRef
}

func (UserAccountCreated) Kind() core.EventKind { return KindUserAccountCreated }

type UserAccountDeleted struct {
	Base
	User core.UserRef
}

func (UserAccountDeleted) Kind() core.EventKind { return KindUserAccountDeleted }

type UserAccountSuspended struct {
	Base
	User core.UserRef
}

func (UserAccountSuspended) Kind() core.EventKind { return KindUserAccountSuspended }

type UserAccountUnsuspended struct {
	Base
	User core.UserRef
}

func (UserAccountUnsuspended) Kind() core.EventKind { return KindUserAccountUnsuspended }

type UserEmailAddressConfirmed struct {
	Base
	User core.UserRef
}

func (UserEmailAddressConfirmed) Kind() core.EventKind { return KindUserEmailAddressConfirmed }

type UserScreenNameChanged struct {
	Base
	UserID        string
	OldScreenName string
	NewScreenName string
}

func (UserScreenNameChanged) Kind() core.EventKind { return KindUserScreenNameChanged }

type UserBadgeAwarded struct {
	Base
	Awardee    core.UserRef
	BadgeLabel string
}

func (UserBadgeAwarded) Kind() core.EventKind { return KindUserBadgeAwarded }

type RoleAssignedToUser struct {
	Base
	User   core.UserRef
	RoleID string
}

func (RoleAssignedToUser) Kind() core.EventKind { return KindRoleAssignedToUser }

type RoleDeassignedFromUser struct {
	Base
	User   core.UserRef
	RoleID string
}

func (RoleDeassignedFromUser) Kind() core.EventKind { return KindRoleDeassignedFromUser }

type GuestServerRegistered struct {
	Base
	Owner      core.UserRef
	PartyID    string
	PartyTitle string
}

func (GuestServerRegistered) Kind() core.EventKind { return KindGuestServerRegistered }

type GuestServerApproved struct {
	Base
	Owner core.UserRef
}

func (GuestServerApproved) Kind() core.EventKind { return KindGuestServerApproved }

type GuestServerCheckedIn struct {
	Base
	Owner core.UserRef
}

func (GuestServerCheckedIn) Kind() core.EventKind { return KindGuestServerCheckedIn }

type GuestServerCheckedOut struct {
	Base
	Owner core.UserRef
}

func (GuestServerCheckedOut) Kind() core.EventKind { return KindGuestServerCheckedOut }

type NewsItemPublished struct {
	Base
	Title       string
	ChannelID   string
	ExternalURL string
}

func (NewsItemPublished) Kind() core.EventKind { return KindNewsItemPublished }

type ShopOrderPlaced struct {
	Base
	Orderer     core.UserRef
	OrderNumber string
}

func (ShopOrderPlaced) Kind() core.EventKind { return KindShopOrderPlaced }

type ShopOrderCanceled struct {
	Base
	Orderer     core.UserRef
	OrderNumber string
}

func (ShopOrderCanceled) Kind() core.EventKind { return KindShopOrderCanceled }

type ShopOrderPaid struct {
	Base
	Orderer       core.UserRef
	OrderNumber   string
	PaymentMethod string
}

func (ShopOrderPaid) Kind() core.EventKind { return KindShopOrderPaid }

type BoardTopicCreated struct {
	Base
	Creator    core.UserRef
	TopicTitle string
	TopicURL   string
}

func (BoardTopicCreated) Kind() core.EventKind { return KindBoardTopicCreated }

var (
	_ core.Event = UserAccountCreated{}
	_ core.Event = UserAccountDeleted{}
	_ core.Event = UserAccountSuspended{}
	_ core.Event = UserAccountUnsuspended{}
	_ core.Event = UserEmailAddressConfirmed{}
	_ core.Event = UserScreenNameChanged{}
	_ core.Event = UserBadgeAwarded{}
	_ core.Event = RoleAssignedToUser{}
	_ core.Event = RoleDeassignedFromUser{}
	_ core.Event = GuestServerRegistered{}
	_ core.Event = GuestServerApproved{}
	_ core.Event = GuestServerCheckedIn{}
	_ core.Event = GuestServerCheckedOut{}
	_ core.Event = NewsItemPublished{}
	_ core.Event = ShopOrderPlaced{}
	_ core.Event = ShopOrderCanceled{}
	_ core.Event = ShopOrderPaid{}
	_ core.Event = BoardTopicCreated{}
)
