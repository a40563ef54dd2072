// Package domain defines the persistence models for accounts, categories,
// tickets, conversation sessions, and the processed-update ledger. These
// types are mapped with GORM and form the core data layer of the grievance
// intake application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Source channels recorded on tickets. The web channel is written by the
// legacy portal; this service only ever writes ChannelTelegram.
const (
	ChannelWeb      = "web"
	ChannelTelegram = "telegram"
)

// DefaultPriority is assigned to every ticket created through the chat channel.
const DefaultPriority = "normal"

// Account represents a citizen account that owns tickets. Accounts created
// through the Telegram channel carry a generated, non-externally-usable
// credential and a chat-derived display name until the citizen claims the
// account through the portal.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name; for auto-provisioned accounts derived from chat hints.
//   - Email: unique login key. Auto-provisioned accounts use the deterministic
//     placeholder address derived from the chat id (see PlaceholderEmail).
//   - PasswordHash: bcrypt hash; random for auto-provisioned accounts.
//   - TelegramChatID: unique chat-id binding; nil until a chat is linked.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Account struct {
	ID             string         `json:"id"               gorm:"type:char(36);primaryKey"`
	Name           string         `json:"name"             gorm:"type:varchar(128);not null"`
	Email          string         `json:"email"            gorm:"type:varchar(255);not null;uniqueIndex:ux_accounts_email"`
	PasswordHash   string         `json:"-"                gorm:"type:varchar(128);not null"`
	Phone          string         `json:"phone,omitempty"  gorm:"type:varchar(32)"`
	TelegramChatID *string        `json:"telegram_chat_id,omitempty" gorm:"type:varchar(64);uniqueIndex:ux_accounts_tg_chat"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"                gorm:"index"`
}

// TableName returns the database table name for Account.
func (Account) TableName() string { return "accounts" }

// Category is one entry of the read-only grievance category catalog. The
// catalog is seeded at startup and ordered by SortOrder for display.
type Category struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(128);not null;uniqueIndex:ux_categories_name"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Ticket is the canonical citizen-reported issue record. Tickets carry two
// coexisting status representations: Status is the fine-grained lifecycle
// value written by the legacy web portal, TrackingStatus is the coarse value
// written by newer channels. Neither field overwrites the other; readers must
// reconcile them through NormalizeStage.
//
// Provenance: SourceChannel names the intake channel ("web" or "telegram"),
// SourceExternalID is the channel-native identifier (the chat id for the
// Telegram channel). Status lookups from a chat are scoped by both so one
// citizen cannot read another's ticket by guessing numbers.
type Ticket struct {
	ID               string         `json:"id"            gorm:"type:char(36);primaryKey"`
	TicketNumber     string         `json:"ticket_number" gorm:"type:varchar(64);not null;uniqueIndex:ux_tickets_number"`
	AccountID        string         `json:"account_id"    gorm:"type:char(36);not null;index:idx_tickets_account"`
	CategoryID       uint           `json:"category_id"   gorm:"not null;index"`
	Title            string         `json:"title"         gorm:"type:varchar(255);not null"`
	Description      string         `json:"description"   gorm:"type:text;not null"`
	Location         string         `json:"location"      gorm:"type:varchar(255);not null"`
	Latitude         *float64       `json:"latitude,omitempty"`
	Longitude        *float64       `json:"longitude,omitempty"`
	Priority         string         `json:"priority"      gorm:"type:varchar(16);not null;default:'normal'"`
	Status           string         `json:"status"        gorm:"type:varchar(32);not null;default:'pending'"`
	TrackingStatus   string         `json:"tracking_status" gorm:"type:varchar(32);not null;default:'submitted'"`
	SourceChannel    string         `json:"source_channel"    gorm:"type:varchar(16);not null;index:idx_tickets_source,priority:1"`
	SourceExternalID string         `json:"source_external_id" gorm:"type:varchar(64);not null;index:idx_tickets_source,priority:2"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"             gorm:"index"`

	// Account is the owning citizen account.
	Account Account `json:"-" gorm:"foreignKey:AccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// Category is the catalog entry the ticket was filed under.
	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the database table name for Ticket.
func (Ticket) TableName() string { return "tickets" }

// ConversationSession is the durable per-chat conversation record. One row
// exists per Telegram chat id, created lazily on first contact and never
// deleted, only reset. All mutation happens through conversation transitions;
// the draft is stored as a JSON blob so partial intake survives restarts.
type ConversationSession struct {
	ChatID    string    `json:"chat_id"    gorm:"type:varchar(64);primaryKey"`
	AccountID *string   `json:"account_id,omitempty" gorm:"type:char(36);index"`
	State     State     `json:"state"      gorm:"type:varchar(32);not null"`
	Language  string    `json:"language"   gorm:"type:varchar(8);not null;default:'en'"`
	DraftJSON string    `json:"-"          gorm:"type:text;not null;default:'{}'"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for ConversationSession.
func (ConversationSession) TableName() string { return "conversation_sessions" }

// ProcessedUpdate is one row of the idempotency ledger: a Telegram update id
// that has already been dispatched. Rows are write-once; replaying a recorded
// id must trigger no side effects.
type ProcessedUpdate struct {
	UpdateID    int64     `gorm:"primaryKey;autoIncrement:false"`
	ProcessedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
}

// TableName returns the database table name for ProcessedUpdate.
func (ProcessedUpdate) TableName() string { return "processed_updates" }
