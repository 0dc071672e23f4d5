//go:build unix

package osc52

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeSet(t *testing.T) {
	got := encodeSet('c', []byte("hello"))
	want := append([]byte("\x1b]52;c;"), []byte(base64.StdEncoding.EncodeToString([]byte("hello")))...)
	want = append(want, '\a')

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encodeSet mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeSetPrimary(t *testing.T) {
	got := encodeSet('p', nil)
	if !bytes.HasPrefix(got, []byte("\x1b]52;p;")) {
		t.Fatalf("primary sequence = %q", got)
	}
	if got[len(got)-1] != '\a' {
		t.Fatalf("sequence not BEL-terminated: %q", got)
	}
}

func TestEncodeQuery(t *testing.T) {
	if got := string(encodeQuery('c')); got != "\x1b]52;c;?\a" {
		t.Fatalf("encodeQuery = %q", got)
	}
}

func TestDecodeResponse(t *testing.T) {
	payload := []byte{0x00, 0x01, 'a', 0xFF}
	b64 := base64.StdEncoding.EncodeToString(payload)

	for name, resp := range map[string]string{
		"bel terminated": "\x1b]52;c;" + b64 + "\a",
		"st terminated":  "\x1b]52;c;" + b64 + "\x1b\\",
		"sel omitted":    "\x1b]52;;" + b64 + "\a",
	} {
		t.Run(name, func(t *testing.T) {
			got, err := decodeResponse([]byte(resp))
			if err != nil {
				t.Fatalf("decodeResponse: %v", err)
			}
			if diff := cmp.Diff(payload, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeResponseEmptyClipboard(t *testing.T) {
	got, err := decodeResponse([]byte("\x1b]52;c;\a"))
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty response decoded to %q", got)
	}
}

func TestDecodeResponseRejectsGarbage(t *testing.T) {
	for name, resp := range map[string]string{
		"no terminator": "\x1b]52;c;aGk=",
		"no separator":  "aGk=\a",
		"bad base64":    "\x1b]52;c;!!!\a",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := decodeResponse([]byte(resp)); err == nil {
				t.Fatalf("decodeResponse(%q) succeeded", resp)
			}
		})
	}
}
