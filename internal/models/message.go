package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role 表示對話訊息的發送者
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryMessage 是對話歷史中的一則訊息
type HistoryMessage struct {
	Seq       uint      `gorm:"primaryKey" json:"-"` // 自增序號，決定訊息順序
	ID        string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate 在寫入前補上 UUID
func (m *HistoryMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// NewUserMessage 建立一則使用者訊息
func NewUserMessage(content string) HistoryMessage {
	return HistoryMessage{Role: RoleUser, Content: content}
}

// NewAssistantMessage 建立一則助理回覆
func NewAssistantMessage(content string) HistoryMessage {
	return HistoryMessage{Role: RoleAssistant, Content: content}
}
