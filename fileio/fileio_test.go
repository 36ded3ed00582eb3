package fileio

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestReadText(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.txt":  {Data: []byte("héllo")},
		"bad.txt": {Data: []byte{0xff, 0xfe}},
	}

	got, err := ReadText(context.Background(), fsys, "ok.txt")
	if err != nil || got != "héllo" {
		t.Fatalf("ReadText(ok.txt) = %q, %v", got, err)
	}

	tests := []struct {
		name string
		want error
	}{
		{"bad.txt", ErrNotUTF8},
		{"missing.txt", fs.ErrNotExist},
	}
	for _, tt := range tests {
		_, err := ReadText(context.Background(), fsys, tt.name)
		var ioErr *IOError
		if !errors.As(err, &ioErr) || ioErr.Path != tt.name {
			t.Errorf("ReadText(%s) error = %v, want *IOError", tt.name, err)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("ReadText(%s) error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestReadTextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadText(ctx, fstest.MapFS{"a": {Data: []byte("a")}}, "a")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
