package formatter

import (
	"bytes"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(chat *entity.ChatSession) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(chatTitle(chat))

	for _, msg := range chat.Messages {
		doc.AddParagraph()

		header := doc.AddParagraph().AddRun()
		header.Properties().SetBold(true)
		header.AddText(messageHeader(msg))

		// one paragraph per line keeps line breaks of the message
		for _, line := range strings.Split(msg.Content, "\n") {
			doc.AddParagraph().AddRun().AddText(line)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
