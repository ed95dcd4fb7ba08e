package extraction

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
)

const docxBodyPart = "word/document.xml"

var errDocxBodyMissing = errors.New(docxBodyPart + " not found in archive")

// DocxReader reads paragraph text from the OOXML body, table cells included.
// Formatting is ignored.
type DocxReader struct{}

func NewDocxReader() *DocxReader {
	return &DocxReader{}
}

func (r *DocxReader) Extract(_ context.Context, file *entity.SourceFile) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(file.Content), int64(len(file.Content)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", errDocxBodyMissing
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	text, err := readDocxParagraphs(rc)
	if err != nil {
		return "", err
	}

	return NormalizeWhitespace(text), nil
}

func readDocxParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		}
	}

	return sb.String(), nil
}
