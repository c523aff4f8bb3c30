package organizer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPrimaryAuthor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "Jane Doe"},
		{"Jane Doe/John Smith", "Jane Doe"},
		{" Jane Doe / John Smith ", "Jane Doe"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := PrimaryAuthor(tc.in); got != tc.want {
			t.Errorf("PrimaryAuthor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEnsureBookDirIdempotent(t *testing.T) {
	output := t.TempDir()

	first, err := EnsureBookDir(output, "Jane Doe/John Smith", "My Book")
	if err != nil {
		t.Fatalf("EnsureBookDir: %v", err)
	}
	want := filepath.Join(output, "Jane Doe", "My Book")
	if first != want {
		t.Fatalf("unexpected dir %s, want %s", first, want)
	}

	second, err := EnsureBookDir(output, "Jane Doe/John Smith", "My Book")
	if err != nil {
		t.Fatalf("second EnsureBookDir: %v", err)
	}
	if second != first {
		t.Fatalf("layout not stable: %s vs %s", second, first)
	}
	info, err := os.Stat(first)
	if err != nil || !info.IsDir() {
		t.Fatalf("book dir missing: %v", err)
	}
}

func TestEnsureBookDirRequiresIdentity(t *testing.T) {
	if _, err := EnsureBookDir(t.TempDir(), "", "Title"); err == nil {
		t.Fatal("expected error for empty author")
	}
	if _, err := EnsureBookDir(t.TempDir(), "Author", "  "); err == nil {
		t.Fatal("expected error for empty title")
	}
}
