package hashutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	t.Run("known digest", func(t *testing.T) {
		path := write("hello.txt", "hello world\n")

		got, err := HashFile(path)
		if err != nil {
			t.Fatalf("HashFile() error = %v", err)
		}
		// sha256 of "hello world\n"
		want := "a948904f2f0f479b8f8197694b30184b0d2ed1c1cd2a1ec0fb85d299a192a447"
		if got != want {
			t.Errorf("HashFile() = %s, want %s", got, want)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := write("empty.txt", "")

		got, err := HashFile(path)
		if err != nil {
			t.Fatalf("HashFile() error = %v", err)
		}
		// sha256 of the empty input
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got != want {
			t.Errorf("HashFile() = %s, want %s", got, want)
		}
	})

	t.Run("identical content same digest", func(t *testing.T) {
		a := write("a.bin", "same bytes")
		b := write("b.bin", "same bytes")

		ha, err := HashFile(a)
		if err != nil {
			t.Fatalf("HashFile(a) error = %v", err)
		}
		hb, err := HashFile(b)
		if err != nil {
			t.Fatalf("HashFile(b) error = %v", err)
		}
		if ha != hb {
			t.Errorf("digests differ for identical content: %s vs %s", ha, hb)
		}
	})

	t.Run("different content different digest", func(t *testing.T) {
		a := write("c.bin", "content one")
		b := write("d.bin", "content two")

		ha, _ := HashFile(a)
		hb, _ := HashFile(b)
		if ha == hb {
			t.Error("digests equal for different content")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := HashFile(filepath.Join(dir, "does-not-exist"))
		if err == nil {
			t.Error("HashFile() error = nil, want error for missing file")
		}
	})
}
