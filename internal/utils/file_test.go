package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":        "jpg",
		"clip.mp4":         "mp4",
		"no_extension":     "",
		"archive.tar.gz":   "gz",
	}
	for in, want := range cases {
		if got := FileExtension(in); got != want {
			t.Errorf("FileExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	yes := []string{"a.jpg", "a.PNG", "a.webp", "a.mp4", "a.mov"}
	no := []string{"a.txt", "a.gif", "a"}

	for _, f := range yes {
		if !IsMediaFile(f) {
			t.Errorf("IsMediaFile(%q) = false, want true", f)
		}
	}
	for _, f := range no {
		if IsMediaFile(f) {
			t.Errorf("IsMediaFile(%q) = true, want false", f)
		}
	}
}

func TestOutputPathDerivesSuffixAndFormat(t *testing.T) {
	got := OutputPath("/in/photo.png", "/out", "_conformed", "jpg")
	want := filepath.Join("/out", "photo_conformed.jpg")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestOutputPathDefaultsFormatFromInput(t *testing.T) {
	got := OutputPath("/in/photo.png", "/out", "", "")
	want := filepath.Join("/out", "photo.png")
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestEnsureDirCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deep")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("expected %s to exist as a directory", dir)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if FileExists(path) {
		t.Error("expected FileExists to be false before the file is created")
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !FileExists(path) {
		t.Error("expected FileExists to be true after creation")
	}
	if FileExists(dir) {
		t.Error("expected FileExists to be false for a directory")
	}
}

func TestListMediaFilesFindsOnlyMedia(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.txt", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	files, err := ListMediaFiles(dir)
	if err != nil {
		t.Fatalf("ListMediaFiles: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("len(files) = %d, want 2", len(files))
	}
}
