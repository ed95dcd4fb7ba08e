package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
)

const timestampLayout = "2006-01-02 15:04"

// Formatter renders a chat transcript into a downloadable file
type Formatter interface {
	Format(chat *entity.ChatSession) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	fontPath string
}

// NewFactory creates a formatter factory. fontPath optionally points to a
// UTF-8 TTF font used by the PDF formatter.
func NewFactory(fontPath string) *Factory {
	return &Factory{fontPath: fontPath}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(f.fontPath), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

func roleLabel(role entity.MessageRole) string {
	switch role {
	case entity.RoleUser:
		return "User"
	case entity.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}

func messageHeader(msg *entity.Message) string {
	if msg.CreatedAt.IsZero() {
		return roleLabel(msg.Role)
	}
	return fmt.Sprintf("%s (%s)", roleLabel(msg.Role), msg.CreatedAt.UTC().Format(timestampLayout))
}

func chatTitle(chat *entity.ChatSession) string {
	title := strings.TrimSpace(chat.Title)
	if title == "" {
		return entity.DefaultChatTitle
	}
	return title
}

// FileName builds the attachment name for an exported chat
func FileName(chat *entity.ChatSession, f Formatter) string {
	return fmt.Sprintf("chat-%s-%s%s", chat.ID, chat.UpdatedAt.UTC().Format("20060102"), f.FileExtension())
}
