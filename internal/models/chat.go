package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation pairs one client with an instructor and/or a dietician.
//
// The slots use different identifier spaces: ClientID and InstructorID hold
// account ids, DieticianID holds the dietician profile id. Uniqueness per
// (client, instructor) and (client, dietician) comes from partial indexes
// created by migration 001.
type Conversation struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	ClientID     string    `gorm:"type:text;index;not null" json:"clientId"`
	InstructorID *string   `gorm:"type:text;index" json:"instructorId"`
	DieticianID  *string   `gorm:"type:text;index" json:"dieticianId"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Message ids are monotonic so history has a stable order for equal
// timestamps.
type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID string     `gorm:"type:text;index:idx_messages_conversation_sent;not null" json:"conversationId"`
	SenderID       string     `gorm:"type:text;index;not null" json:"senderId"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	SentAt         time.Time  `gorm:"index:idx_messages_conversation_sent;not null" json:"sentAt"`
	IsRead         bool       `gorm:"default:false;not null" json:"isRead"`
	ReadAt         *time.Time `json:"readAt"`
}

// ConversationSummary is one row of a participant's inbox.
type ConversationSummary struct {
	ConversationID   string     `json:"conversationId"`
	CounterpartID    string     `json:"counterpartId"`
	CounterpartName  string     `json:"counterpartName"`
	CounterpartRole  Role       `json:"counterpartRole"`
	LastMessage      string     `json:"lastMessage"`
	LastMessageAt    *time.Time `json:"lastMessageAt"`
	LastMessageBy    string     `json:"lastMessageBy,omitempty"`
	UnreadCount      int64      `json:"unreadCount"`
	ConversationDate time.Time  `json:"createdAt"`
}
