package models

// GroupChannel is the receiver id of the shared staff group.
const GroupChannel = "group"

// DeletedMessageText replaces the content of a tombstoned message.
const DeletedMessageText = "This message was deleted"

type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageImage  MessageKind = "image"
	MessageFile   MessageKind = "file"
	MessageSystem MessageKind = "system"
)

type ChatFile struct {
	Name string `json:"name"`
	Data string `json:"data"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type ChatMessage struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId"`
	SenderName string      `json:"senderName"`
	Text       string      `json:"text"`
	Image      string      `json:"image,omitempty"`
	File       *ChatFile   `json:"file,omitempty"`
	Timestamp  int64       `json:"timestamp"`
	Type       MessageKind `json:"type"`
	IsRead     bool        `json:"isRead"`
	IsEdited   bool        `json:"isEdited,omitempty"`
	IsDeleted  bool        `json:"isDeleted,omitempty"`
}

func (m ChatMessage) IsGroup() bool {
	return m.ReceiverID == GroupChannel
}

type ChatMessageInput struct {
	ReceiverID string    `json:"receiverId" validate:"required"`
	Text       string    `json:"text"`
	Image      string    `json:"image"`
	File       *ChatFile `json:"file"`
}
