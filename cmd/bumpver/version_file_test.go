package main

import (
	"os"
	"path/filepath"
	"testing"
)

func versionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "VERSION")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadVersion(t *testing.T) {
	t.Parallel()

	v, err := readVersion(versionFile(t, "1.2.3\n"))
	if err != nil {
		t.Fatalf("readVersion: %v", err)
	}
	if v.String() != "1.2.3" {
		t.Errorf("got %s", v)
	}

	// A v prefix is tolerated.
	v, err = readVersion(versionFile(t, "v2.0.0"))
	if err != nil {
		t.Fatalf("readVersion with prefix: %v", err)
	}
	if v.String() != "2.0.0" {
		t.Errorf("got %s", v)
	}

	if _, err := readVersion(versionFile(t, "not a version")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := readVersion(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected read error")
	}
}

func TestSetVersion(t *testing.T) {
	t.Parallel()
	path := versionFile(t, "0.1.0\n")

	if _, err := setVersion(path, "1.0.0-rc.1"); err != nil {
		t.Fatalf("setVersion: %v", err)
	}
	v, err := readVersion(path)
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "1.0.0-rc.1" {
		t.Errorf("got %s", v)
	}

	if _, err := setVersion(path, "nope"); err == nil {
		t.Error("expected parse error")
	}
}

func TestBumpVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		component string
		want      string
	}{
		{"major", "2.0.0"},
		{"minor", "1.3.0"},
		{"patch", "1.2.4"},
		{"PATCH", "1.2.4"},
	}
	for _, tc := range tests {
		path := versionFile(t, "1.2.3\n")
		v, err := bumpVersion(path, tc.component)
		if err != nil {
			t.Fatalf("bumpVersion(%s): %v", tc.component, err)
		}
		if v.String() != tc.want {
			t.Errorf("bump %s: got %s want %s", tc.component, v, tc.want)
		}
		persisted, err := readVersion(path)
		if err != nil {
			t.Fatal(err)
		}
		if persisted.String() != tc.want {
			t.Errorf("bump %s not persisted: file has %s", tc.component, persisted)
		}
	}

	if _, err := bumpVersion(versionFile(t, "1.0.0"), "huge"); err == nil {
		t.Error("expected error for invalid component")
	}
}
