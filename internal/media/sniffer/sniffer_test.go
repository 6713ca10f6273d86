package sniffer

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0}, TypePNG},
		{"pdf", []byte("%PDF-1.7\n%..."), TypePDF},
		{"doc", []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1, 0, 0}, TypeDOC},
		{"docx", append([]byte("PK\x03\x04\x14\x00"), []byte("[Content_Types].xml")...), TypeDOCX},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectHead(tc.head)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Type)
		})
	}
}

func TestDetectHeadRejects(t *testing.T) {
	for _, head := range [][]byte{
		nil,
		[]byte("GIF89a......"),
		[]byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"),
		[]byte("PK\x03\x04 a plain zip archive"),
	} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectReturnsHead(t *testing.T) {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 1000)...)
	result, head, err := Detect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TypePDF, result.Type)
	assert.Len(t, head, HeadSize)
}

func TestCompatible(t *testing.T) {
	pdf := Result{Type: TypePDF, MIME: "application/pdf"}
	jpeg := Result{Type: TypeJPEG, MIME: "image/jpeg"}

	assert.True(t, Compatible("", pdf))
	assert.True(t, Compatible("application/octet-stream", pdf))
	assert.True(t, Compatible("application/pdf", pdf))
	assert.True(t, Compatible("image/jpg", jpeg))
	assert.False(t, Compatible("image/png", pdf))
}

func TestMimeTypeFromHTTP(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/pdf; charset=binary")
	assert.Equal(t, "application/pdf", MimeTypeFromHTTP(h))
	assert.Equal(t, "", MimeTypeFromHTTP(http.Header{}))
}
