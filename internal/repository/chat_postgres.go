package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository defines the interface for chat session persistence.
// Every method is scoped by owner; chats of other owners are not found.
type ChatRepository interface {
	ListChats(ctx context.Context, ownerID string) ([]*entity.ChatSession, error)
	CreateChat(ctx context.Context, ownerID, title string, first *entity.Message) (*entity.ChatSession, error)
	GetChat(ctx context.Context, ownerID, chatID string) (*entity.ChatSession, error)
	AppendMessage(ctx context.Context, ownerID, chatID string, msg *entity.Message, rename func(title string) string) error
	DeleteChat(ctx context.Context, ownerID, chatID string) error
}

var _ ChatRepository = &ChatPostgres{}

// ChatPostgres implements ChatRepository using PostgreSQL
type ChatPostgres struct {
	db *pgxpool.Pool
}

func NewChatPostgres(db *pgxpool.Pool) *ChatPostgres {
	return &ChatPostgres{db: db}
}

const chatColumns = `id, owner_id, title, created_at, updated_at`

func parseIDs(ownerID, chatID string) (uuid.UUID, uuid.UUID, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, entity.ErrUnauthorized
	}
	chat, err := uuid.Parse(chatID)
	if err != nil {
		return uuid.Nil, uuid.Nil, entity.ErrChatNotFound
	}
	return owner, chat, nil
}

func (r *ChatPostgres) ListChats(ctx context.Context, ownerID string) ([]*entity.ChatSession, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+chatColumns+` FROM chat_sessions WHERE owner_id = $1 ORDER BY updated_at DESC, id`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	dbChats, err := pgx.CollectRows(rows, pgx.RowToStructByName[chatRow])
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	chats := make([]*entity.ChatSession, 0, len(dbChats))
	for i := range dbChats {
		chats = append(chats, toEntityChat(&dbChats[i]))
	}

	return chats, nil
}

func (r *ChatPostgres) CreateChat(ctx context.Context, ownerID, title string, first *entity.Message) (*entity.ChatSession, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}

	var chat *entity.ChatSession
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`INSERT INTO chat_sessions (id, owner_id, title) VALUES ($1, $2, $3) RETURNING `+chatColumns,
			uuid.New(), owner, title,
		)
		if err != nil {
			return err
		}
		row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[chatRow])
		if err != nil {
			return err
		}
		chat = toEntityChat(&row)

		if first == nil {
			return nil
		}
		if err := insertMessage(ctx, tx, row.ID, first); err != nil {
			return err
		}
		chat.Messages = []*entity.Message{first}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	return chat, nil
}

func (r *ChatPostgres) GetChat(ctx context.Context, ownerID, chatID string) (*entity.ChatSession, error) {
	owner, id, err := parseIDs(ownerID, chatID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+chatColumns+` FROM chat_sessions WHERE id = $1 AND owner_id = $2`,
		id, owner,
	)
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[chatRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrChatNotFound
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	chat := toEntityChat(&row)

	rows, err = r.db.Query(ctx,
		`SELECT role, content, created_at FROM chat_messages WHERE session_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get chat messages: %w", err)
	}
	dbMessages, err := pgx.CollectRows(rows, pgx.RowToStructByName[messageRow])
	if err != nil {
		return nil, fmt.Errorf("get chat messages: %w", err)
	}

	chat.Messages = make([]*entity.Message, 0, len(dbMessages))
	for i := range dbMessages {
		chat.Messages = append(chat.Messages, toEntityMessage(&dbMessages[i]))
	}

	return chat, nil
}

// AppendMessage locks the chat row, stores msg and sets the title to
// rename(currentTitle) in one transaction
func (r *ChatPostgres) AppendMessage(
	ctx context.Context,
	ownerID, chatID string,
	msg *entity.Message,
	rename func(title string) string,
) error {
	owner, id, err := parseIDs(ownerID, chatID)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var title string
		err := tx.QueryRow(ctx,
			`SELECT title FROM chat_sessions WHERE id = $1 AND owner_id = $2 FOR UPDATE`,
			id, owner,
		).Scan(&title)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entity.ErrChatNotFound
			}
			return err
		}

		if err := insertMessage(ctx, tx, id, msg); err != nil {
			return err
		}

		if rename != nil {
			title = rename(title)
		}

		_, err = tx.Exec(ctx,
			`UPDATE chat_sessions SET title = $1, updated_at = now() WHERE id = $2`,
			title, id,
		)
		return err
	})
	if err != nil {
		if errors.Is(err, entity.ErrChatNotFound) {
			return err
		}
		return fmt.Errorf("append message: %w", err)
	}

	return nil
}

func (r *ChatPostgres) DeleteChat(ctx context.Context, ownerID, chatID string) error {
	owner, id, err := parseIDs(ownerID, chatID)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrChatNotFound
	}

	return nil
}

func insertMessage(ctx context.Context, tx pgx.Tx, chatID uuid.UUID, msg *entity.Message) error {
	return tx.QueryRow(ctx,
		`INSERT INTO chat_messages (session_id, role, content) VALUES ($1, $2, $3) RETURNING created_at`,
		chatID, string(msg.Role), msg.Content,
	).Scan(&msg.CreatedAt)
}
