package entity

import (
	"mime/multipart"
	"time"
)

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Auth

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MeResponse struct {
	User *UserDTO `json:"user"`
}

type AuthResponse struct {
	Message string   `json:"message,omitempty"`
	Token   string   `json:"token"`
	User    *UserDTO `json:"user"`
}

// Documents

type UploadRequest struct {
	OwnerID   string
	SessionID string
	Files     []*multipart.FileHeader
}

// UploadResult is the independent outcome of one file in an upload batch
type UploadResult struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	HasText   bool   `json:"hasText"`
	SessionID string `json:"sessionId"`
	Error     string `json:"error,omitempty"`
}

type UploadResponse struct {
	Docs      []*UploadResult `json:"docs"`
	SessionID string          `json:"sessionId"`
}

type DocumentDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	SessionID string    `json:"sessionId"`
}

type ListDocumentsResponse struct {
	Docs []*DocumentDTO `json:"docs"`
}

type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// Chats

type ChatSummaryDTO struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChatDTO struct {
	ChatSummaryDTO
	Messages []*Message `json:"messages"`
}

type ListChatsResponse struct {
	Chats []*ChatSummaryDTO `json:"chats"`
}

type ChatResponse struct {
	Chat *ChatDTO `json:"chat"`
}

type AppendMessageRequest struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// OCRRecognizeResponse is returned by the OCR service
type OCRRecognizeResponse struct {
	Text string `json:"text"`
}

// AuthResult is a signed token with the user it was issued for
type AuthResult struct {
	Token string
	User  *User
}

// ExportedFile is a rendered chat transcript
type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
}
