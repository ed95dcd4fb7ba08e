package extraction

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const identityGlyphCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0024> <0048>
<0048> <0065>
endbfchar
2 beginbfrange
<004F> <004F> <006C>
<0052> <0053> [<006F> <0021>]
endbfrange
endcmap
end
end`

func TestParseToUnicode(t *testing.T) {
	cmap := parseToUnicode([]byte(identityGlyphCMap))
	require.NotNil(t, cmap)
	assert.Equal(t, 2, cmap.codeWidth)

	tests := []struct {
		code     uint32
		expected string
		found    bool
	}{
		{code: 0x24, expected: "H", found: true},
		{code: 0x48, expected: "e", found: true},
		{code: 0x4F, expected: "l", found: true},
		{code: 0x52, expected: "o", found: true},
		{code: 0x53, expected: "!", found: true},
		{code: 0x99, found: false},
	}
	for _, tc := range tests {
		text, ok := cmap.lookup(tc.code)
		assert.Equal(t, tc.found, ok, "code %#x", tc.code)
		assert.Equal(t, tc.expected, text, "code %#x", tc.code)
	}
}

func TestParseToUnicode_IncrementingRange(t *testing.T) {
	cmap := parseToUnicode([]byte("1 beginbfrange <0010> <0012> <0410> endbfrange"))
	require.NotNil(t, cmap)

	text, ok := cmap.lookup(0x12)

	assert.True(t, ok)
	assert.Equal(t, "В", text)
}

func TestParseToUnicode_Empty(t *testing.T) {
	assert.Nil(t, parseToUnicode([]byte("begincmap endcmap")))
}

func TestDecodeContentStream_Fonts(t *testing.T) {
	glyphFont := &fontDecoder{codeWidth: 2, toUnicode: parseToUnicode([]byte(identityGlyphCMap))}
	fonts := map[string]*fontDecoder{
		"F1": glyphFont,
		"F2": {codeWidth: 2, unreadable: true},
		"F3": {codeWidth: 1},
		"F4": {codeWidth: 1, differences: map[byte]string{0x01: "fi", 0x02: "", 'x': "é"}},
	}

	tests := []struct {
		name     string
		stream   string
		expected string
	}{
		{
			name:     "glyph ids mapped through ToUnicode",
			stream:   "BT /F1 12 Tf 72 720 Td <00240048004F004F0052> Tj ET",
			expected: "Hello",
		},
		{
			name:     "glyph ids without ToUnicode dropped",
			stream:   "BT /F2 12 Tf 72 720 Td <00240048004F004F0052> Tj ET",
			expected: "",
		},
		{
			name:     "font switch inside a text object",
			stream:   "BT /F2 12 Tf <0024> Tj /F3 10 Tf (plain) Tj ET",
			expected: "plain",
		},
		{
			name:     "simple font keeps WinAnsi punctuation",
			stream:   "BT /F3 12 Tf <93717594> Tj ET",
			expected: "“qu”",
		},
		{
			name:     "differences resolved by glyph name",
			stream:   "BT /F4 12 Tf <01726D02782E> Tj ET",
			expected: "firmé.",
		},
		{
			name:     "unknown resource name decodes as Latin-1",
			stream:   "BT /F9 12 Tf (caf\\351) Tj ET",
			expected: "café",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, decodeContentStream([]byte(tc.stream), fonts))
		})
	}
}

func TestGlyphText(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		found    bool
	}{
		{name: "a", expected: "a", found: true},
		{name: "comma", expected: ",", found: true},
		{name: "uni0416", expected: "Ж", found: true},
		{name: "u1F600", expected: "\U0001F600", found: true},
		{name: "a.sc", expected: "a", found: true},
		{name: "g123", found: false},
	}
	for _, tc := range tests {
		text, ok := glyphText(tc.name)
		assert.Equal(t, tc.found, ok, tc.name)
		assert.Equal(t, tc.expected, text, tc.name)
	}
}

var toUnicodeRef = regexp.MustCompile(`/ToUnicode \d+ 0 R`)

func unicodeFontPDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	return generatePDF(t, func(pdf *gofpdf.Fpdf) {
		pdf.AddUTF8Font("dejavu", "", "testdata/DejaVuSansCondensed.ttf")
		pdf.SetFont("dejavu", "", 12)
		for i, line := range lines {
			pdf.Text(20, float64(20+10*i), line)
		}
	})
}

func TestPDFTextLayer_IdentityHFont(t *testing.T) {
	content := unicodeFontPDF(t, "Привет мир", "Hello world")

	text, err := NewPDFTextLayer().ExtractText(content)

	require.NoError(t, err)
	assert.Equal(t, "Привет мир Hello world", NormalizeWhitespace(text))
}

func TestExtractor_IdentityHFontSkipsOCR(t *testing.T) {
	content := unicodeFontPDF(t, "Договор поставки №7")
	ocr := &fakeOCR{}
	rasterizer := &fakeRasterizer{pages: 1}
	extractor := NewExtractor(Deps{OCR: ocr, Rasterizer: rasterizer})

	text := extractor.Extract(context.Background(), pdfFile(content))

	assert.Equal(t, "Договор поставки №7", text)
	assert.Zero(t, ocr.calls)
}

func TestExtractor_GlyphFontWithoutToUnicodeUsesOCR(t *testing.T) {
	content := unicodeFontPDF(t, "Hello world")
	ref := toUnicodeRef.Find(content)
	require.NotNil(t, ref)
	// blanked in place so the xref offsets stay valid
	content = bytes.Replace(content, ref, bytes.Repeat([]byte(" "), len(ref)), 1)

	ocr := &fakeOCR{texts: []string{"scanned words"}}
	rasterizer := &fakeRasterizer{pages: 1}
	extractor := NewExtractor(Deps{OCR: ocr, Rasterizer: rasterizer})

	text := extractor.Extract(context.Background(), pdfFile(content))

	assert.Equal(t, "scanned words", text)
	assert.Equal(t, 1, ocr.calls)
}
