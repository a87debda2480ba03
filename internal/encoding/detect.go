package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader detects the encoding of a ledger file and returns a reader producing
// NFC-normalized UTF-8, so decomposed and precomposed Vietnamese text compare equal.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. valid UTF-8
//  3. Windows-1258, recognized by its combining tone marks
//  4. chardet heuristics
//  5. Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return nfc(br), nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return nfc(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return nfc(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(trimPartialRune(buf)) {
		return nfc(br), nil
	}

	if hasVietnameseToneMarks(buf) {
		return nfc(br, charmap.Windows1258.NewDecoder()), nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return nfc(br), nil
		case "ISO-8859-9":
			return nfc(br, charmap.ISO8859_9.NewDecoder()), nil
		}
	}

	return nfc(br, charmap.Windows1252.NewDecoder()), nil
}

func nfc(r io.Reader, decoders ...transform.Transformer) io.Reader {
	return transform.NewReader(r, transform.Chain(append(decoders, norm.NFC)...))
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of the peek window.
func trimPartialRune(buf []byte) []byte {
	if len(buf) < peekSize {
		return buf
	}

	for i := 1; i <= utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}

// Windows-1258 bytes that decode to combining tone marks: grave, hook above, tilde,
// acute and dot below.
var toneMarks = [256]bool{0xCC: true, 0xD2: true, 0xDE: true, 0xEC: true, 0xF2: true}

// hasVietnameseToneMarks reports whether buf contains a Windows-1258 tone mark placed
// right after a letter. In Windows-1252 the same bytes are rare accented capitals.
func hasVietnameseToneMarks(buf []byte) bool {
	for i := 1; i < len(buf); i++ {
		if toneMarks[buf[i]] && isLetter(buf[i-1]) {
			return true
		}
	}

	return false
}

func isLetter(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		return true
	case b >= 0xC0 && b != 0xD7 && b != 0xF7:
		return !toneMarks[b]
	}

	return false
}
