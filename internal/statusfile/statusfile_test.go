package statusfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/modeswitch/internal/apperr"
)

func tempStatus(t *testing.T, contents string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "status.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("seed status file: %v", err)
	}
	return New(path)
}

func readRaw(t *testing.T, s *Store) string {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(data)
}

func TestRead_PlainNumber(t *testing.T) {
	s := tempStatus(t, "1\n")
	v, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 1 {
		t.Errorf("value = %d, want 1", v)
	}
}

func TestRead_TrailingDigits(t *testing.T) {
	// The match anchors only at the end of the first line, so a prefix is
	// tolerated and the trailing digit run is the value.
	cases := []struct {
		contents string
		want     int
	}{
		{"status: 5\n", 5},
		{"prefix123\n", 123},
		{"7", 7},
		{"2\nsecond line ignored\n", 2},
		{"3\r\n", 3},
	}
	for _, tc := range cases {
		s := tempStatus(t, tc.contents)
		v, err := s.Read()
		if err != nil {
			t.Fatalf("Read(%q): %v", tc.contents, err)
		}
		if v != tc.want {
			t.Errorf("Read(%q) = %d, want %d", tc.contents, v, tc.want)
		}
	}
}

func TestRead_MissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.txt"))
	_, err := s.Read()
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRead_InvalidContent(t *testing.T) {
	for _, contents := range []string{"abc\n", "", "\n", "12abc\n", "mode one\n"} {
		s := tempStatus(t, contents)
		_, err := s.Read()
		if !errors.Is(err, apperr.ErrInvalidState) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidState", contents, err)
		}
	}
}

func TestRotate_Increments(t *testing.T) {
	s := tempStatus(t, "0\n")
	r, err := s.Rotate(2)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if r.Old != 0 || r.New != 1 {
		t.Errorf("rotation = %+v, want {0 1}", r)
	}
	if got := readRaw(t, s); got != "1\n" {
		t.Errorf("file = %q, want %q", got, "1\n")
	}
}

func TestRotate_Wraparound(t *testing.T) {
	s := tempStatus(t, "2\n")
	r, err := s.Rotate(2)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if r.New != 0 {
		t.Errorf("new = %d, want 0", r.New)
	}
	if got := readRaw(t, s); got != "0\n" {
		t.Errorf("file = %q, want %q", got, "0\n")
	}
}

func TestRotate_IdentityRange(t *testing.T) {
	// max = 0 pins every rotation at 0.
	s := tempStatus(t, "0\n")
	r, err := s.Rotate(0)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if r.New != 0 {
		t.Errorf("new = %d, want 0", r.New)
	}
}

func TestRotate_FullCycle(t *testing.T) {
	s := tempStatus(t, "0\n")
	want := []string{"1\n", "2\n", "0\n"}
	for i, w := range want {
		if _, err := s.Rotate(2); err != nil {
			t.Fatalf("Rotate #%d: %v", i+1, err)
		}
		if got := readRaw(t, s); got != w {
			t.Fatalf("after rotate #%d file = %q, want %q", i+1, got, w)
		}
	}
}

func TestRotate_AllValidPairs(t *testing.T) {
	for max := 0; max <= 4; max++ {
		for start := 0; start <= max; start++ {
			s := tempStatus(t, "")
			if err := s.Write(start); err != nil {
				t.Fatalf("Write: %v", err)
			}
			r, err := s.Rotate(max)
			if err != nil {
				t.Fatalf("Rotate(max=%d, start=%d): %v", max, start, err)
			}
			if want := (start + 1) % (max + 1); r.New != want {
				t.Errorf("Rotate(max=%d, start=%d) = %d, want %d", max, start, r.New, want)
			}
		}
	}
}

func TestRotate_MissingFileLeavesNothingBehind(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "absent.txt"))
	if _, err := s.Rotate(2); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("rotate on missing file created entries: %v", entries)
	}
}

func TestRotate_InvalidContentUntouched(t *testing.T) {
	s := tempStatus(t, "abc")
	if _, err := s.Rotate(2); !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if got := readRaw(t, s); got != "abc" {
		t.Errorf("file modified on failure: %q", got)
	}
}

func TestRotate_ValueAboveMaxStillWraps(t *testing.T) {
	// A stale file can hold a value outside [0, max]; the modulus still
	// lands the result back in range.
	s := tempStatus(t, "7\n")
	r, err := s.Rotate(2)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if r.New != 2 {
		t.Errorf("new = %d, want 2", r.New)
	}
}

func TestWrite_OverwritesExtraContent(t *testing.T) {
	s := tempStatus(t, "1\ntrailing junk\nmore\n")
	if _, err := s.Rotate(2); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if got := readRaw(t, s); got != "2\n" {
		t.Errorf("file = %q, want %q", got, "2\n")
	}
}

func TestWrite_NoTempDebris(t *testing.T) {
	s := tempStatus(t, "0\n")
	if _, err := s.Rotate(2); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".modeswitch-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWrite_CreatesFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "seeded.txt"))
	if err := s.Write(1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := readRaw(t, s); got != "1\n" {
		t.Errorf("file = %q, want %q", got, "1\n")
	}
}
