package repository

import (
	"context"
	"fmt"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository defines the interface for uploaded document persistence
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *entity.Document) (*entity.Document, error)
	ListSessionDocuments(ctx context.Context, ownerID, sessionID string, withText bool) ([]*entity.Document, error)
}

var _ DocumentRepository = &DocumentPostgres{}

// DocumentPostgres implements DocumentRepository using PostgreSQL
type DocumentPostgres struct {
	db *pgxpool.Pool
}

func NewDocumentPostgres(db *pgxpool.Pool) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

const documentColumns = `id, owner_id, session_id, name, media_type, size, storage_path, extracted_text, created_at`

func (r *DocumentPostgres) CreateDocument(ctx context.Context, doc *entity.Document) (*entity.Document, error) {
	owner, err := uuid.Parse(doc.OwnerID)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}

	rows, err := r.db.Query(ctx,
		`INSERT INTO documents (id, owner_id, session_id, name, media_type, size, storage_path, extracted_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+documentColumns,
		uuid.New(), owner, doc.SessionID, doc.Name, doc.MediaType, doc.Size, doc.StoragePath, doc.ExtractedText,
	)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[documentRow])
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	return toEntityDocument(&row), nil
}

// ListSessionDocuments returns the owner's documents of one session, newest
// first. Extracted text is only loaded when withText is set.
func (r *DocumentPostgres) ListSessionDocuments(
	ctx context.Context,
	ownerID, sessionID string,
	withText bool,
) ([]*entity.Document, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, entity.ErrUnauthorized
	}

	textColumn := `'' AS extracted_text`
	if withText {
		textColumn = `extracted_text`
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, session_id, name, media_type, size, storage_path, `+textColumn+`, created_at
		 FROM documents
		 WHERE owner_id = $1 AND session_id = $2
		 ORDER BY created_at DESC, id`,
		owner, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	dbDocs, err := pgx.CollectRows(rows, pgx.RowToStructByName[documentRow])
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]*entity.Document, 0, len(dbDocs))
	for i := range dbDocs {
		docs = append(docs, toEntityDocument(&dbDocs[i]))
	}

	return docs, nil
}
