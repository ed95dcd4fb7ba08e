package formatter

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChat() *entity.ChatSession {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	return &entity.ChatSession{
		ID:        "c1",
		Title:     "Invoice questions",
		UpdatedAt: ts,
		Messages: []*entity.Message{
			{Role: entity.RoleAssistant, Content: entity.ChatGreeting, CreatedAt: ts},
			{Role: entity.RoleUser, Content: "What is the total?", CreatedAt: ts},
			{Role: entity.RoleAssistant, Content: "99 EUR\nDue in March", CreatedAt: ts},
		},
	}
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory("")

	for _, format := range []entity.ResultFormat{entity.FormatMarkdown, entity.FormatDOCX, entity.FormatPDF} {
		fm, err := f.Create(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, fm.ContentType())
	}

	_, err := f.Create("html")
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(testChat())
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "# Invoice questions\n"))
	assert.Contains(t, text, "**User (2026-03-01 10:30)**\n\nWhat is the total?\n")
	assert.Contains(t, text, "99 EUR\nDue in March")
	assert.Less(t, strings.Index(text, "What is the total?"), strings.Index(text, "99 EUR"))
}

func TestMarkdownFormatterEmptyTitle(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(&entity.ChatSession{})
	require.NoError(t, err)
	assert.Equal(t, "# New chat\n", string(out))
}

func TestDOCXFormatter(t *testing.T) {
	out, err := NewDOCXFormatter().Format(testChat())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	var body string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		body = string(data)
	}

	require.NotEmpty(t, body)
	assert.Contains(t, body, "Invoice questions")
	assert.Contains(t, body, "What is the total?")
	assert.Contains(t, body, "Due in March")
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter("").Format(testChat())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "chat-c1-20260301.md", FileName(testChat(), NewMarkdownFormatter()))
}
