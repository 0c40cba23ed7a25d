// Package sniff derives size, MIME type and extension from uploaded bytes.
// Client-declared values are only used when the content carries no
// recognisable signature.
package sniff

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/h2non/filetype"
)

const (
	DefaultMIMEType  = "application/octet-stream"
	DefaultExtension = "bin"

	// headerSize covers every matcher in filetype, including the
	// zip-container ones that look past the first few hundred bytes.
	headerSize = 8192

	// maxExtensionLen matches the width of the format column.
	maxExtensionLen = 10
)

type Result struct {
	Size      int64
	MIMEType  string
	Extension string
	// Detected reports whether a content signature matched.
	Detected bool
}

// Sniff inspects r without consuming it: on return r is positioned at offset
// zero again so the caller can stream it in full.
func Sniff(r io.ReadSeeker, declaredName, declaredType string) (Result, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return Result{}, fmt.Errorf("measure content: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("rewind content: %w", err)
	}

	head := make([]byte, min(size, headerSize))
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Result{}, fmt.Errorf("read content header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("rewind content: %w", err)
	}

	res := detect(head[:n], declaredName, declaredType)
	res.Size = size
	return res, nil
}

func detect(head []byte, declaredName, declaredType string) Result {
	if len(head) > 0 {
		kind, err := filetype.Match(head)
		if err == nil && kind != filetype.Unknown {
			return Result{
				MIMEType:  kind.MIME.Value,
				Extension: kind.Extension,
				Detected:  true,
			}
		}
	}

	mimeType := strings.TrimSpace(declaredType)
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return Result{
		MIMEType:  mimeType,
		Extension: ExtensionFromName(declaredName),
	}
}

// ExtensionFromName returns the lowercased text after the last dot of the
// base name, or DefaultExtension when there is none.
func ExtensionFromName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return DefaultExtension
	}
	ext := strings.ToLower(base[i+1:])
	if ext == "" || len(ext) > maxExtensionLen {
		return DefaultExtension
	}
	return ext
}
