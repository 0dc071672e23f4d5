package mime

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Kind
	}{
		{"ascii", []byte("plain text"), KindText},
		{"utf8", []byte("привет"), KindText},
		{"empty", []byte{}, KindText},
		{"invalid utf8", []byte{0xFF, 0xFE, 0x01}, KindBinary},
		{"png magic", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, KindBinary},
		{"jpeg magic", []byte{0xFF, 0xD8, 0xFF, 0xE0}, KindBinary},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.data); got != tc.want {
				t.Fatalf("Detect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSniff(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"text", []byte("hello"), TypeText},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"pdf", []byte("%PDF-1.7"), "application/pdf"},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "application/zip"},
		{"arbitrary binary", []byte{0x00, 0x01, 0x02, 0xFF}, TypeBinary},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sniff(tc.data); got != tc.want {
				t.Fatalf("Sniff() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFromLabel(t *testing.T) {
	cases := []struct {
		label string
		want  Kind
	}{
		{"text/plain", KindText},
		{"text/plain;charset=utf-8", KindText},
		{"TEXT", KindText},
		{"STRING", KindText},
		{"UTF8_STRING", KindText},
		{"text/html", KindText},
		{"image/png", KindBinary},
		{"application/octet-stream", KindBinary},
		{"", KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			if got := FromLabel(tc.label); got != tc.want {
				t.Fatalf("FromLabel(%q) = %v, want %v", tc.label, got, tc.want)
			}
		})
	}
}
