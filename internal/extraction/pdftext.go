package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// kerningGap is the TJ displacement, in thousandths of a text space unit,
// past which two strings are treated as separate words
const kerningGap = -200

// PDFTextLayer decodes the text-showing operators of every page content stream
// through the fonts of the page resources.
type PDFTextLayer struct{}

func NewPDFTextLayer() *PDFTextLayer {
	return &PDFTextLayer{}
}

func (l *PDFTextLayer) ExtractText(pdf []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdf), conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, inherited, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", pageNr, err)
		}

		data, err := ctx.PageContent(pageDict, pageNr)
		if errors.Is(err, model.ErrNoContent) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("extract content of page %d: %w", pageNr, err)
		}

		var resources types.Dict
		if inherited != nil {
			resources = inherited.Resources
		}
		if text := decodeContentStream(data, pageFonts(ctx, resources)); text != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}

	return sb.String(), nil
}

type tokenKind int

const (
	tokenOther tokenKind = iota
	tokenString
	tokenNumber
	tokenName
	tokenArrayOpen
	tokenArrayClose
	tokenOperator
)

type contentToken struct {
	kind   tokenKind
	text   string
	raw    []byte
	number float64
}

// decodeContentStream walks a page content stream and returns the strings
// shown by Tj, TJ, ' and " with line breaks where text objects end.
// Strings are decoded with the font selected by the last Tf; a font that is
// missing from fonts falls back to single-byte decoding.
func decodeContentStream(data []byte, fonts map[string]*fontDecoder) string {
	s := &contentScanner{data: data}

	var sb strings.Builder
	var operands []string
	var current *fontDecoder
	lastName := ""
	arrayDepth := 0
	for {
		tok, ok := s.next()
		if !ok {
			break
		}

		switch tok.kind {
		case tokenString:
			operands = append(operands, current.decode(tok.raw))
		case tokenName:
			lastName = tok.text
		case tokenNumber:
			if arrayDepth > 0 && tok.number < kerningGap {
				operands = append(operands, " ")
			}
		case tokenArrayOpen:
			arrayDepth++
		case tokenArrayClose:
			if arrayDepth > 0 {
				arrayDepth--
			}
		case tokenOperator:
			switch tok.text {
			case "Tf":
				current = fonts[lastName]
			case "Tj", "TJ":
				sb.WriteString(strings.Join(operands, ""))
			case "'", `"`:
				sb.WriteByte('\n')
				sb.WriteString(strings.Join(operands, ""))
			case "Td", "TD", "T*", "Tm":
				sb.WriteByte(' ')
			case "ET":
				sb.WriteByte('\n')
			case "BI":
				s.skipInlineImage()
			}
			operands = operands[:0]
			lastName = ""
			arrayDepth = 0
		}
	}

	return strings.TrimSpace(sb.String())
}

type contentScanner struct {
	data []byte
	pos  int
}

func isPDFWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isPDFRegular(c byte) bool {
	return !isPDFWhitespace(c) && !isPDFDelimiter(c)
}

func (s *contentScanner) next() (contentToken, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isPDFWhitespace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return contentToken{kind: tokenString, raw: s.literalString()}, true
		case c == '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.pos += 2
				return contentToken{kind: tokenOther}, true
			}
			s.pos++
			return contentToken{kind: tokenString, raw: s.hexString()}, true
		case c == '>':
			s.pos++
			if s.pos < len(s.data) && s.data[s.pos] == '>' {
				s.pos++
			}
			return contentToken{kind: tokenOther}, true
		case c == '[':
			s.pos++
			return contentToken{kind: tokenArrayOpen}, true
		case c == ']':
			s.pos++
			return contentToken{kind: tokenArrayClose}, true
		case c == '/':
			s.pos++
			return contentToken{kind: tokenName, text: s.regular()}, true
		case c == '{' || c == '}' || c == ')':
			s.pos++
			return contentToken{kind: tokenOther}, true
		default:
			word := s.regular()
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return contentToken{kind: tokenNumber, number: n}, true
			}
			return contentToken{kind: tokenOperator, text: word}, true
		}
	}
	return contentToken{}, false
}

func (s *contentScanner) regular() string {
	start := s.pos
	for s.pos < len(s.data) && isPDFRegular(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literalString reads up to the matching close paren; the open paren is consumed
func (s *contentScanner) literalString() []byte {
	var out []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
			out = append(out, c)
		case ')':
			depth--
			if depth == 0 {
				return out
			}
			out = append(out, c)
		case '\\':
			if s.pos >= len(s.data) {
				return out
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// hexString reads up to '>'; the opening '<' is consumed
func (s *contentScanner) hexString() []byte {
	var digits []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		out = append(out, hexValue(digits[i])<<4|hexValue(digits[i+1]))
	}
	return out
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

// skipInlineImage moves past the binary payload between ID and EI
func (s *contentScanner) skipInlineImage() {
	for {
		tok, ok := s.next()
		if !ok {
			return
		}
		if tok.kind == tokenOperator && tok.text == "ID" {
			break
		}
	}

	s.pos++
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			isPDFWhitespace(s.data[s.pos-1]) &&
			(s.pos+2 == len(s.data) || isPDFWhitespace(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

// decodePDFText turns a string operand shown without a known font into text.
// UTF-16BE strings carry a byte order mark; everything else is read as
// single-byte Latin-1.
func decodePDFText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		return printableText(string(utf16.Decode(utf16Units(raw[2:]))))
	}

	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return printableText(string(runes))
}

// printableText folds whitespace to a single space and drops control runes
func printableText(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func utf16Units(raw []byte) []uint16 {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return units
}
