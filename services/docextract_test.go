package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedUploadType(t *testing.T) {
	assert.True(t, AllowedUploadType("text/plain"))
	assert.True(t, AllowedUploadType("text/plain; charset=utf-8"))
	assert.True(t, AllowedUploadType("application/pdf"))
	assert.True(t, AllowedUploadType("TEXT/CSV"))
	assert.False(t, AllowedUploadType("image/png"))
	assert.False(t, AllowedUploadType("application/zip"))
	assert.False(t, AllowedUploadType(""))
}

func TestExtractUploadPlainText(t *testing.T) {
	text, err := ExtractUpload("text/plain", []byte("  hello world  \n"))
	assert.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractUploadCSV(t *testing.T) {
	text, err := ExtractUpload("text/csv; charset=utf-8", []byte("headline,claim;source\nbreaking,news;blog"))
	assert.NoError(t, err)
	assert.NotContains(t, text, ",")
	assert.NotContains(t, text, ";")
	assert.Contains(t, text, "headline claim source")
}

func TestExtractUploadRejectsUnknownType(t *testing.T) {
	_, err := ExtractUpload("image/png", []byte{0x89, 0x50})
	assert.Error(t, err)
}

func TestTextFromContentStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n(Hello) Tj\n[(wor) -20 (ld)] TJ\nT*\n(next line) Tj\nET\n")
	text := textFromContentStream(stream)

	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "wor")
	assert.Contains(t, text, "ld")
	assert.Contains(t, text, "next line")
}

func TestDecodePDFString(t *testing.T) {
	assert.Equal(t, "a(b)c", decodePDFString([]byte(`a\(b\)c`)))
	assert.Equal(t, "line\nbreak", decodePDFString([]byte(`line\nbreak`)))
	assert.Equal(t, `back\slash`, decodePDFString([]byte(`back\\slash`)))
	assert.Equal(t, "A", decodePDFString([]byte(`\101`)), "octal escape")
}
