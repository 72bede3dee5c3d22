package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{name: "simple path", path: "kjv.csv", wantError: nil},
		{name: "nested path", path: "data/xrefs/tsk.csv.xz", wantError: nil},
		{name: "unicode path", path: "datos/reina-valera-1909.xml", wantError: nil},
		{name: "empty path", path: "", wantError: ErrEmptyPath},
		{name: "null byte", path: "kjv\x00.csv", wantError: ErrInvalidCharacter},
		{name: "newline", path: "kjv\n.csv", wantError: ErrInvalidCharacter},
		{name: "too long", path: strings.Repeat("a", MaxPathLength+1), wantError: ErrPathTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidatePath(%q) error = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath(%q) error = %v, want %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestCheckFileInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kjv.csv")
	if err := os.WriteFile(path, []byte("Gen,1,1,In the beginning\n"), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckFileInfo(info); err != nil {
		t.Errorf("CheckFileInfo(file) error = %v", err)
	}

	info, err = os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckFileInfo(info); !errors.Is(err, ErrNotRegularFile) {
		t.Errorf("CheckFileInfo(dir) error = %v, want %v", err, ErrNotRegularFile)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want FileType
	}{
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, FileTypeXZ},
		{"gzip", []byte{0x1f, 0x8b, 0x08}, FileTypeGzip},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x14}, FileTypeZip},
		{"sqlite", []byte("SQLite format 3\x00rest"), FileTypeSQLite},
		{"csv", []byte("book,chapter,verse,text\nGen,1,1,In the beginning\n"), FileTypeText},
		{"xml", []byte(`<?xml version="1.0" encoding="UTF-8"?><XMLBIBLE>`), FileTypeText},
		{"utf-8 bom", []byte("\xef\xbb\xbfsource,target\n"), FileTypeText},
		{"cjk only", []byte("太初有道"), FileTypeText},
		{"empty", nil, FileTypeText},
		{"binary", []byte{0x00, 0x01, 0x02, 0x03}, FileTypeUnknown},
		{"control heavy", []byte{0x01, 0x02, 0x03, 0x04, 'a'}, FileTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.head); got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}
