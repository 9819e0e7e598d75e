package checksum

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSumKnownVector(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestSumFileMatchesSum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kick.wav")
	data := []byte("fake audio bytes")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := SumFile(path)
	if err != nil {
		t.Fatalf("SumFile: %v", err)
	}
	if got != Sum(data) {
		t.Errorf("SumFile = %q, Sum = %q", got, Sum(data))
	}
}

func TestSumFileMissing(t *testing.T) {
	if _, err := SumFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
