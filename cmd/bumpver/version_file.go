package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
)

func readVersion(path string) (*semver.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read version file: %w", err)
	}
	raw := strings.TrimSpace(string(data))
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", raw, err)
	}
	return v, nil
}

func writeVersion(path string, v *semver.Version) error {
	return os.WriteFile(path, []byte(v.String()+"\n"), 0o644)
}

func setVersion(path, raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", raw, err)
	}
	if err := writeVersion(path, v); err != nil {
		return nil, err
	}
	return v, nil
}

func bumpVersion(path, component string) (*semver.Version, error) {
	cur, err := readVersion(path)
	if err != nil {
		return nil, err
	}

	var next semver.Version
	switch strings.ToLower(component) {
	case "major":
		next = cur.IncMajor()
	case "minor":
		next = cur.IncMinor()
	case "patch":
		next = cur.IncPatch()
	default:
		return nil, fmt.Errorf("invalid component %q: use major, minor or patch", component)
	}

	if err := writeVersion(path, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
