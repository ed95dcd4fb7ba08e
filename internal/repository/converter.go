package repository

import (
	"time"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/google/uuid"
)

type userRow struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type chatRow struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type messageRow struct {
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

type documentRow struct {
	ID            uuid.UUID `db:"id"`
	OwnerID       uuid.UUID `db:"owner_id"`
	SessionID     string    `db:"session_id"`
	Name          string    `db:"name"`
	MediaType     string    `db:"media_type"`
	Size          int64     `db:"size"`
	StoragePath   string    `db:"storage_path"`
	ExtractedText string    `db:"extracted_text"`
	CreatedAt     time.Time `db:"created_at"`
}

func toEntityUser(row *userRow) *entity.User {
	return &entity.User{
		ID:           row.ID.String(),
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}

func toEntityChat(row *chatRow) *entity.ChatSession {
	return &entity.ChatSession{
		ID:        row.ID.String(),
		OwnerID:   row.OwnerID.String(),
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toEntityMessage(row *messageRow) *entity.Message {
	return &entity.Message{
		Role:      entity.MessageRole(row.Role),
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}
}

func toEntityDocument(row *documentRow) *entity.Document {
	return &entity.Document{
		ID:            row.ID.String(),
		OwnerID:       row.OwnerID.String(),
		SessionID:     row.SessionID,
		Name:          row.Name,
		MediaType:     row.MediaType,
		Size:          row.Size,
		StoragePath:   row.StoragePath,
		ExtractedText: row.ExtractedText,
		CreatedAt:     row.CreatedAt,
	}
}
