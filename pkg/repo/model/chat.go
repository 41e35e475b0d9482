package model

// ChatMessage rows come in pairs, the user turn carries Message and the
// assistant turn carries Response.
type ChatMessage struct {
	BaseModel
	UserID        int64  `gorm:"not null;index:idx_chat_user_id" json:"user_id"`
	Message       string `gorm:"type:text" json:"message"`
	Response      string `gorm:"type:text" json:"response"`
	IsUserMessage bool   `gorm:"not null" json:"is_user_message"`
}

func (*ChatMessage) TableName() string { return "chat_messages" }
