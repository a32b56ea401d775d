// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := AtomicWriteFile(path, []byte("initial"), 0600); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("Content = %q, want updated", content)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the target file, got %d entries", len(entries))
	}
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	path := filepath.Join(t.TempDir(), "secret")
	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("perm = %o, want 600", info.Mode().Perm())
	}
}

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"tiny", "hello", 2, "he"},
		{"zero", "hello", 0, ""},
		{"cjk", "日本語テキスト", 7, "日本..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateWidth(tc.input, tc.width); got != tc.want {
				t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.want)
			}
		})
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("  a\n\tb   c "); got != "a b c" {
		t.Errorf("SingleLine() = %q", got)
	}
}

func TestWrapWidth(t *testing.T) {
	got := wrapWidth("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapWidth() = %q, want %q", got, want)
	}

	got = wrapWidth("abcdefghijkl", 5)
	want = []string{"abcde", "fghij", "kl"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("wrapWidth(long word) = %q, want %q", got, want)
	}

	if got := wrapWidth("", 5); len(got) != 0 {
		t.Errorf("wrapWidth(empty) = %q", got)
	}

	got = wrapWidth("日本語 テキスト", 6)
	for _, line := range got {
		if runewidth.StringWidth(line) > 6 {
			t.Errorf("wrapWidth(wide) line too wide: %q", line)
		}
	}
}

func TestClampLines(t *testing.T) {
	got := ClampLines("one two three four five six", 9, 2)
	if len(got) != 2 {
		t.Fatalf("ClampLines returned %d lines: %q", len(got), got)
	}
	if got[0] != "one two" {
		t.Errorf("line 0 = %q", got[0])
	}
	if !strings.HasSuffix(got[1], Ellipsis) {
		t.Errorf("line 1 = %q, want ellipsis", got[1])
	}
	if runewidth.StringWidth(got[1]) > 9 {
		t.Errorf("line 1 too wide: %q", got[1])
	}

	short := ClampLines("hi", 9, 2)
	if len(short) != 1 || short[0] != "hi" {
		t.Errorf("ClampLines(short) = %q", short)
	}
}

func TestClampLines_LastLineFillsWidth(t *testing.T) {
	long := strings.Repeat("word ", 30)
	for width := 12; width <= 16; width++ {
		got := ClampLines(long, width, 2)
		if len(got) != 2 {
			t.Fatalf("width %d: got %d lines: %q", width, len(got), got)
		}
		if !strings.HasSuffix(got[1], Ellipsis) {
			t.Errorf("width %d: line 1 = %q, want ellipsis", width, got[1])
		}
		if w := runewidth.StringWidth(got[1]); w > width {
			t.Errorf("width %d: line 1 is %d cells: %q", width, w, got[1])
		}
	}

	// "word word word" is exactly 14 cells, so the ellipsis replaces its tail.
	got := ClampLines(long, 14, 2)
	if got[1] != "word word w..." {
		t.Errorf("line 1 = %q, want %q", got[1], "word word w...")
	}
}

func TestClampLines_NarrowWidth(t *testing.T) {
	got := ClampLines("aa bb cc", 2, 1)
	if len(got) != 1 || got[0] != "aa" {
		t.Errorf("ClampLines(narrow) = %q", got)
	}
}
