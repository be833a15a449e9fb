package store

import (
	"path/filepath"
	"testing"
)

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "history.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Put("recent_views", []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	data, ok, err := s.Get("recent_views")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(data) != "[1,2,3]" {
		t.Fatalf("unexpected blob: %s", data)
	}
}

func TestStoreMissingKey(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "h.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	data, ok, err := s.Get("nope")
	if err != nil || ok || data != nil {
		t.Fatalf("expected miss, got %q %v %v", data, ok, err)
	}
}

func TestStoreDelete(t *testing.T) {
	for name, path := range map[string]string{
		"bolt":   filepath.Join(t.TempDir(), "h.db"),
		"memory": "",
	} {
		t.Run(name, func(t *testing.T) {
			s, err := Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()

			s.Put("a", []byte("1"))
			if err := s.Delete("a"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok, _ := s.Get("a"); ok {
				t.Fatal("expected key to be gone")
			}
			if err := s.Delete("missing"); err != nil {
				t.Fatalf("Delete(missing) error = %v", err)
			}
		})
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	s, _ := Open("")
	value := []byte("abc")
	s.Put("k", value)
	value[0] = 'x'

	got, _, _ := s.Get("k")
	if string(got) != "abc" {
		t.Fatalf("store aliased caller slice: %s", got)
	}
	got[0] = 'y'
	again, _, _ := s.Get("k")
	if string(again) != "abc" {
		t.Fatalf("store aliased returned slice: %s", again)
	}
}
