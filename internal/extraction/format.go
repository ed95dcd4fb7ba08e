package extraction

import (
	"mime"
	"path/filepath"
	"strings"
)

// FormatKind identifies which reader handles a file
type FormatKind int

const (
	FormatUnsupported FormatKind = iota
	FormatPlainText
	FormatDocx
	FormatPDF
	FormatImage
	// FormatLegacyWord is the binary .doc format, recognized but not read
	FormatLegacyWord
)

const (
	mediaTypePlainText   = "text/plain"
	mediaTypeDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mediaTypePDF         = "application/pdf"
	mediaTypeLegacyWord  = "application/msword"
	mediaTypeImagePrefix = "image/"
)

var extensionFormats = map[string]FormatKind{
	".txt":  FormatPlainText,
	".docx": FormatDocx,
	".pdf":  FormatPDF,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".webp": FormatImage,
	".bmp":  FormatImage,
	".doc":  FormatLegacyWord,
}

func (k FormatKind) String() string {
	switch k {
	case FormatPlainText:
		return "plain-text"
	case FormatDocx:
		return "docx"
	case FormatPDF:
		return "pdf"
	case FormatImage:
		return "image"
	case FormatLegacyWord:
		return "legacy-word"
	default:
		return "unsupported"
	}
}

// Detect picks a format from the declared media type first and the
// file extension second. It never fails: unknown inputs are FormatUnsupported.
func Detect(mediaType, filename string) FormatKind {
	if kind, ok := detectMediaType(mediaType); ok {
		return kind
	}

	ext := strings.TrimSpace(strings.ToLower(filepath.Ext(filepath.Base(filename))))
	if kind, ok := extensionFormats[ext]; ok {
		return kind
	}

	return FormatUnsupported
}

func detectMediaType(mediaType string) (FormatKind, bool) {
	mediaType = strings.TrimSpace(strings.ToLower(mediaType))
	if mediaType == "" {
		return FormatUnsupported, false
	}
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}

	switch {
	case mediaType == mediaTypePlainText:
		return FormatPlainText, true
	case mediaType == mediaTypeDocx:
		return FormatDocx, true
	case mediaType == mediaTypePDF:
		return FormatPDF, true
	case mediaType == mediaTypeLegacyWord:
		return FormatLegacyWord, true
	case strings.HasPrefix(mediaType, mediaTypeImagePrefix):
		return FormatImage, true
	default:
		return FormatUnsupported, false
	}
}
