//go:build unix

package external

import (
	"bytes"
	"context"
	"testing"
)

func TestRunWithStdinSuccess(t *testing.T) {
	if err := runWithStdin(context.Background(), []string{"cat"}, []byte("hello")); err != nil {
		t.Fatalf("runWithStdin: %v", err)
	}
}

func TestRunWithStdinReportsExitFailure(t *testing.T) {
	if err := runWithStdin(context.Background(), []string{"false"}, nil); err == nil {
		t.Fatal("failing child reported no error")
	}
}

func TestRunWithStdinPrefersWriteError(t *testing.T) {
	// A child that exits without reading makes the write fail once the pipe
	// buffer fills. The write error must come back and the call must return,
	// which means the child was waited on rather than left behind.
	data := bytes.Repeat([]byte{'x'}, 1<<20)
	if err := runWithStdin(context.Background(), []string{"true"}, data); err == nil {
		t.Fatal("write to a non-reading child reported no error")
	}
}
