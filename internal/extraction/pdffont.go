package extraction

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxCMapRange bounds a single bfrange entry
const maxCMapRange = 0xFFFF

// fontDecoder maps the bytes of a string operand to text for one page font.
// A nil decoder reads bytes as Latin-1.
type fontDecoder struct {
	codeWidth   int
	toUnicode   *toUnicodeMap
	differences map[byte]string
	// unreadable fonts carry glyph ids with no way back to characters;
	// their strings are dropped so a page of them reads as having no text
	unreadable bool
}

func (f *fontDecoder) decode(raw []byte) string {
	if f == nil {
		return decodePDFText(raw)
	}
	if f.unreadable {
		return ""
	}

	width := f.codeWidth
	if width <= 0 {
		width = 1
	}

	var sb strings.Builder
	for i := 0; i+width <= len(raw); i += width {
		code := codeValue(raw[i : i+width])
		if text, ok := f.toUnicode.lookup(code); ok {
			sb.WriteString(text)
			continue
		}
		if width == 1 {
			sb.WriteString(f.simpleText(raw[i]))
		}
	}
	return printableText(sb.String())
}

func (f *fontDecoder) simpleText(b byte) string {
	if text, ok := f.differences[b]; ok {
		return text
	}
	if text, ok := winAnsiHigh[b]; ok {
		return text
	}
	return string(rune(b))
}

// pageFonts builds a decoder for every entry of the Font resource dict
func pageFonts(ctx *model.Context, resources types.Dict) map[string]*fontDecoder {
	fonts := make(map[string]*fontDecoder)
	if resources == nil {
		return fonts
	}

	o, found := resources.Find("Font")
	if !found {
		return fonts
	}
	fontDict, err := ctx.DereferenceDict(o)
	if err != nil || fontDict == nil {
		return fonts
	}

	for name, obj := range fontDict {
		font, err := ctx.DereferenceDict(obj)
		if err != nil || font == nil {
			fonts[name] = &fontDecoder{unreadable: true}
			continue
		}
		fonts[name] = newFontDecoder(ctx, font)
	}
	return fonts
}

func newFontDecoder(ctx *model.Context, font types.Dict) *fontDecoder {
	subtype := ""
	if name := font.NameEntry("Subtype"); name != nil {
		subtype = *name
	}
	composite := subtype == "Type0"

	dec := &fontDecoder{codeWidth: 1}
	if composite {
		dec.codeWidth = 2
	}

	if o, found := font.Find("ToUnicode"); found {
		if cmap := readToUnicode(ctx, o); cmap != nil {
			dec.toUnicode = cmap
			if composite && cmap.codeWidth > 0 {
				dec.codeWidth = cmap.codeWidth
			}
			return dec
		}
	}

	if composite || subtype == "Type3" || isSymbolFont(font) {
		dec.unreadable = true
		return dec
	}

	if o, found := font.Find("Encoding"); found {
		if enc, err := ctx.Dereference(o); err == nil {
			if encDict, ok := enc.(types.Dict); ok {
				dec.differences = readDifferences(ctx, encDict)
			}
		}
	}
	return dec
}

func isSymbolFont(font types.Dict) bool {
	name := font.NameEntry("BaseFont")
	if name == nil {
		return false
	}
	return strings.Contains(*name, "Symbol") || strings.Contains(*name, "Dingbats")
}

func readToUnicode(ctx *model.Context, o types.Object) *toUnicodeMap {
	sd, _, err := ctx.DereferenceStreamDict(o)
	if err != nil || sd == nil {
		return nil
	}
	data, err := sd.DecodeLength(-1)
	if err != nil {
		return nil
	}
	return parseToUnicode(data)
}

// readDifferences resolves the glyph names of an encoding Differences array.
// Codes whose glyph names cannot be resolved map to no text.
func readDifferences(ctx *model.Context, enc types.Dict) map[byte]string {
	o, found := enc.Find("Differences")
	if !found {
		return nil
	}
	arr, err := ctx.DereferenceArray(o)
	if err != nil {
		return nil
	}

	diffs := make(map[byte]string)
	code := -1
	for _, item := range arr {
		switch v := item.(type) {
		case types.Integer:
			code = v.Value()
		case types.Name:
			if code < 0 {
				continue
			}
			if code < 256 {
				text, _ := glyphText(v.Value())
				diffs[byte(code)] = text
			}
			code++
		}
	}
	return diffs
}

type cmapRange struct {
	lo, hi uint32
	dst    []uint16
	list   []string
}

// toUnicodeMap is a parsed ToUnicode CMap
type toUnicodeMap struct {
	codeWidth int
	chars     map[uint32]string
	ranges    []cmapRange
}

func (m *toUnicodeMap) lookup(code uint32) (string, bool) {
	if m == nil {
		return "", false
	}
	if text, ok := m.chars[code]; ok {
		return text, true
	}
	for _, r := range m.ranges {
		if code < r.lo || code > r.hi {
			continue
		}
		off := code - r.lo
		if r.list != nil {
			if int(off) >= len(r.list) {
				return "", false
			}
			return r.list[off], true
		}
		units := append([]uint16(nil), r.dst...)
		units[len(units)-1] += uint16(off)
		return string(utf16.Decode(units)), true
	}
	return "", false
}

type cmapItem struct {
	code []byte
	list [][]byte
}

// parseToUnicode reads the codespacerange, bfchar and bfrange sections of a
// CMap. It returns nil when the CMap maps nothing.
func parseToUnicode(data []byte) *toUnicodeMap {
	s := &contentScanner{data: data}
	m := &toUnicodeMap{chars: make(map[uint32]string)}

	var items []cmapItem
	var array [][]byte
	inSection, inArray := false, false
	for {
		tok, ok := s.next()
		if !ok {
			break
		}

		switch tok.kind {
		case tokenString:
			switch {
			case inArray:
				array = append(array, tok.raw)
			case inSection:
				items = append(items, cmapItem{code: tok.raw})
			}
		case tokenArrayOpen:
			inArray = true
			array = nil
		case tokenArrayClose:
			if inArray && inSection {
				items = append(items, cmapItem{list: array})
			}
			inArray = false
		case tokenOperator:
			switch tok.text {
			case "begincodespacerange", "beginbfchar", "beginbfrange":
				inSection = true
				items = items[:0]
			case "endcodespacerange":
				if m.codeWidth == 0 && len(items) > 0 && len(items[0].code) > 0 {
					m.codeWidth = len(items[0].code)
				}
			case "endbfchar":
				for i := 0; i+1 < len(items); i += 2 {
					m.chars[codeValue(items[i].code)] = string(utf16.Decode(utf16Units(items[i+1].code)))
				}
			case "endbfrange":
				for i := 0; i+2 < len(items); i += 3 {
					m.addRange(items[i].code, items[i+1].code, items[i+2])
				}
			}
			if strings.HasPrefix(tok.text, "end") {
				inSection = false
			}
		}
	}

	if len(m.chars) == 0 && len(m.ranges) == 0 {
		return nil
	}
	return m
}

func (m *toUnicodeMap) addRange(lo, hi []byte, dst cmapItem) {
	start, end := codeValue(lo), codeValue(hi)
	if end < start || end-start > maxCMapRange {
		return
	}

	if dst.list != nil {
		list := make([]string, len(dst.list))
		for i, raw := range dst.list {
			list[i] = string(utf16.Decode(utf16Units(raw)))
		}
		m.ranges = append(m.ranges, cmapRange{lo: start, hi: end, list: list})
		return
	}

	units := utf16Units(dst.code)
	if len(units) == 0 {
		return
	}
	m.ranges = append(m.ranges, cmapRange{lo: start, hi: end, dst: units})
}

// codeValue reads a big-endian character code of up to four bytes
func codeValue(raw []byte) uint32 {
	var v uint32
	for i, b := range raw {
		if i == 4 {
			break
		}
		v = v<<8 | uint32(b)
	}
	return v
}

// winAnsiHigh covers the WinAnsi codes that differ from Latin-1
var winAnsiHigh = map[byte]string{
	0x80: "€",
	0x85: "…",
	0x91: "‘",
	0x92: "’",
	0x93: "“",
	0x94: "”",
	0x95: "•",
	0x96: "–",
	0x97: "\u2014",
}

var glyphNames = map[string]string{
	"space": " ", "exclam": "!", "quotedbl": "\"", "numbersign": "#",
	"dollar": "$", "percent": "%", "ampersand": "&", "quotesingle": "'",
	"parenleft": "(", "parenright": ")", "asterisk": "*", "plus": "+",
	"comma": ",", "hyphen": "-", "period": ".", "slash": "/",
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"colon": ":", "semicolon": ";", "less": "<", "equal": "=", "greater": ">",
	"question": "?", "at": "@", "bracketleft": "[", "backslash": "\\",
	"bracketright": "]", "underscore": "_", "braceleft": "{", "bar": "|",
	"braceright": "}", "asciitilde": "~",
	"quoteleft": "‘", "quoteright": "’",
	"quotedblleft": "“", "quotedblright": "”",
	"endash": "–", "emdash": "\u2014", "bullet": "•", "ellipsis": "…",
	"fi": "fi", "fl": "fl", "ff": "ff", "ffi": "ffi", "ffl": "ffl",
}

// glyphText resolves an Adobe glyph name: single letters and digits,
// uniXXXX, uXXXX[XX] and the common punctuation names.
func glyphText(name string) (string, bool) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if len(name) == 1 {
		c := name[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return name, true
		}
	}
	if text, ok := glyphNames[name]; ok {
		return text, true
	}
	if strings.HasPrefix(name, "uni") && len(name) == 7 {
		if v, err := strconv.ParseUint(name[3:], 16, 32); err == nil {
			return string(rune(v)), true
		}
	}
	if strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7 {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return string(rune(v)), true
		}
	}
	return "", false
}
