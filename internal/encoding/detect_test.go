package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"

	"github.com/MrJamesThe3rd/stash/internal/encoding"
)

const vietnameseHeader = "Ngày;Loại;Số tiền\n05/01/2024;Nạp tiền;20.000.000\n"

// Windows-1258 encoding of vietnameseHeader. Letters without a precomposed code point
// are written as a base letter followed by a combining tone mark.
var vietnameseWindows1258 = []byte("Ng\xe0y;Loa\xf2i;S\xf4\xec ti\xea\xccn\n05/01/2024;Na\xf2p ti\xea\xccn;20.000.000\n")

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(vietnameseHeader))
	require.NoError(t, err)

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("date;type;amount;note\n2024-01-05;FEE;-1;Crème brûlée\n"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "precomposed utf-8 passes through",
			input: []byte(vietnameseHeader),
			want:  vietnameseHeader,
		},
		{
			name:  "decomposed utf-8 is composed",
			input: []byte(norm.NFD.String(vietnameseHeader)),
			want:  vietnameseHeader,
		},
		{
			name:  "utf-8 bom is stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, vietnameseHeader...),
			want:  vietnameseHeader,
		},
		{
			name:  "utf-16 le with bom",
			input: utf16le,
			want:  vietnameseHeader,
		},
		{
			name:  "windows-1258 tone marks",
			input: vietnameseWindows1258,
			want:  vietnameseHeader,
		},
		{
			name:  "windows-1252 without tone marks",
			input: latin1,
			want:  "date;type;amount;note\n2024-01-05;FEE;-1;Crème brûlée\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_RuneSplitAtPeekBoundary(t *testing.T) {
	// 4095 ASCII bytes put the first byte of "ạ" last in the detection window.
	input := strings.Repeat("a", 4095) + "ạ\n"

	assert.Equal(t, input, readAll(t, []byte(input)))
}
