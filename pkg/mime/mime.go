// Package mime classifies clipboard payload bytes into content kinds and
// picks the MIME type label a backend should advertise for them.
package mime

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

type Kind int32

const (
	KindUnknown Kind = iota - 1

	KindText
	KindBinary
)

func (k Kind) IsText() bool   { return k == KindText }
func (k Kind) IsBinary() bool { return k == KindBinary }

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

const (
	TypeText   = "text/plain;charset=utf-8"
	TypeBinary = "application/octet-stream"
)

// Default returns the MIME type label used when nothing more specific is
// known about the payload.
func Default(k Kind) string {
	if k.IsText() {
		return TypeText
	}
	return TypeBinary
}

// Detect classifies raw clipboard bytes. Valid UTF-8 without a known binary
// signature is text, everything else is binary.
func Detect(data []byte) Kind {
	if sniffBinary(data) != "" {
		return KindBinary
	}
	if utf8.Valid(data) {
		return KindText
	}
	return KindBinary
}

// Sniff returns the MIME type label for data, preferring a magic-number match
// over the kind default.
func Sniff(data []byte) string {
	if typ := sniffBinary(data); typ != "" {
		return typ
	}
	return Default(Detect(data))
}

func sniffBinary(data []byte) string {
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0xFF, 0xD8}):
		return "image/jpeg"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x47, 0x49, 0x46, 0x38}):
		return "image/gif"
	case len(data) >= 2 && bytes.Equal(data[:2], []byte{0x42, 0x4D}):
		return "image/bmp"
	case len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x25, 0x50, 0x44, 0x46}):
		return "application/pdf"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x50, 0x4B, 0x03, 0x04}):
		return "application/zip"
	default:
		return ""
	}
}

var textLabels = map[string]struct{}{
	"text/plain":  {},
	"text":        {},
	"string":      {},
	"utf8_string": {},
}

// FromLabel maps a MIME type label advertised by a clipboard peer to a Kind.
func FromLabel(label string) Kind {
	norm := strings.ToLower(label)
	if idx := strings.Index(norm, ";"); idx != -1 {
		norm = norm[:idx]
	}

	if _, ok := textLabels[norm]; ok {
		return KindText
	}
	if strings.HasPrefix(norm, "text/") {
		return KindText
	}
	if norm == "" {
		return KindUnknown
	}
	return KindBinary
}

// IsTextLabel reports whether label names a plain-text representation.
func IsTextLabel(label string) bool {
	return FromLabel(label) == KindText
}
