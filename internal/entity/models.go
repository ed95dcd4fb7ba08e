package entity

import (
	"fmt"
	"strings"
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (r MessageRole) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
}

const (
	// DefaultChatTitle is kept until the first user message renames the chat
	DefaultChatTitle = "New chat"
	// ChatGreeting is the assistant message every new chat starts with
	ChatGreeting = "Upload documents with the + button, then ask questions about them."
	// MaxChatTitleLength is the number of characters of the first user message used as title
	MaxChatTitleLength = 40
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatSession groups uploaded documents and an ordered message log.
// Its ID doubles as the session id documents are scoped to.
type ChatSession struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Message is immutable once appended to a session log
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"ts"`
}

// Document is an uploaded file with its extracted text.
// ExtractedText is written once at upload and may be empty.
type Document struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	SessionID     string    `json:"session_id"`
	Name          string    `json:"name"`
	MediaType     string    `json:"media_type"`
	Size          int64     `json:"size"`
	StoragePath   string    `json:"-"`
	ExtractedText string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasText reports whether extraction produced any non-blank text
func (d *Document) HasText() bool {
	return strings.TrimSpace(d.ExtractedText) != ""
}

// SourceFile is an uploaded file as received, consumed once by extraction
type SourceFile struct {
	Name      string
	MediaType string
	Size      int64
	Content   []byte
}
