package sniff

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func pngOfSize(n int) []byte {
	b := make([]byte, n)
	copy(b, pngHeader)
	return b
}

func TestSniffPNGIgnoresDeclaredValues(t *testing.T) {
	content := pngOfSize(1024)

	res, err := Sniff(bytes.NewReader(content), "photo.jpg", "text/plain")
	require.NoError(t, err)

	assert.Equal(t, int64(1024), res.Size)
	assert.Equal(t, "image/png", res.MIMEType)
	assert.Equal(t, "png", res.Extension)
	assert.True(t, res.Detected)
}

func TestSniffRewindsReader(t *testing.T) {
	content := pngOfSize(20000)
	r := bytes.NewReader(content)
	_, err := r.Seek(100, io.SeekStart)
	require.NoError(t, err)

	_, err = Sniff(r, "photo.png", "")
	require.NoError(t, err)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, all)
}

func TestSniffFallbacks(t *testing.T) {
	text := []byte("just some plain words, no magic here")

	tests := []struct {
		name         string
		content      []byte
		declaredName string
		declaredType string
		wantMIME     string
		wantExt      string
	}{
		{"nested suffix uses last", text, "report.tar.gz", "application/x-tar", "application/x-tar", "gz"},
		{"uppercase suffix", text, "NOTES.TXT", "text/plain", "text/plain", "txt"},
		{"no dot no type", text, "README", "", DefaultMIMEType, DefaultExtension},
		{"empty name", text, "", "", DefaultMIMEType, DefaultExtension},
		{"trailing dot", text, "weird.", " ", DefaultMIMEType, DefaultExtension},
		{"dot in directory only", text, "v1.2/notes", "", DefaultMIMEType, DefaultExtension},
		{"overlong suffix", text, "archive.reallylongextension", "", DefaultMIMEType, DefaultExtension},
		{"empty content", nil, "empty", "", DefaultMIMEType, DefaultExtension},
		{"empty content keeps declared", nil, "a.csv", "text/csv", "text/csv", "csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Sniff(bytes.NewReader(tt.content), tt.declaredName, tt.declaredType)
			require.NoError(t, err)

			assert.Equal(t, int64(len(tt.content)), res.Size)
			assert.Equal(t, tt.wantMIME, res.MIMEType)
			assert.Equal(t, tt.wantExt, res.Extension)
			assert.False(t, res.Detected)
		})
	}
}

func TestSniffDetectsGzip(t *testing.T) {
	gz := []byte{0x1f, 0x8b, 0x08, 0, 0, 0, 0, 0, 0, 0x03}

	res, err := Sniff(bytes.NewReader(gz), "report.tar.gz", "")
	require.NoError(t, err)
	assert.Equal(t, int64(len(gz)), res.Size)
	assert.Equal(t, "gz", res.Extension)
	assert.Equal(t, "application/gzip", res.MIMEType)
	assert.True(t, res.Detected)
}

func TestExtensionFromName(t *testing.T) {
	assert.Equal(t, "png", ExtensionFromName(`C:\Users\me\Photo.PNG`))
	assert.Equal(t, "bashrc", ExtensionFromName(".bashrc"))
	assert.Equal(t, DefaultExtension, ExtensionFromName("Makefile"))
}
