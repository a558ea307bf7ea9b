// Package updater checks the project's GitHub releases for a version newer
// than the running build.
package updater

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	json "github.com/goccy/go-json"
)

const (
	defaultRepo    = "FerrisMind/inspector-gguf"
	defaultBaseURL = "https://api.github.com"
	userAgent      = "inspector-gguf"
)

// Status classifies the outcome of an update check.
type Status int

const (
	// StatusUpToDate means the latest release is not newer than the
	// running version.
	StatusUpToDate Status = iota
	// StatusUpdateAvailable means a newer release exists.
	StatusUpdateAvailable
	// StatusNoReleases means the repository has no published releases.
	StatusNoReleases
)

func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up to date"
	case StatusUpdateAvailable:
		return "update available"
	case StatusNoReleases:
		return "no releases"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Check is the result of comparing the running version against the latest
// published release. LatestTag keeps the release's own spelling, v prefix
// included, for display.
type Check struct {
	Status    Status
	Current   *semver.Version
	Latest    *semver.Version
	LatestTag string
}

// Client queries the GitHub releases API for one repository.
type Client struct {
	repo    string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithRepo points the client at another owner/name repository.
func WithRepo(repo string) Option {
	return func(c *Client) { c.repo = repo }
}

// WithBaseURL overrides the API endpoint, primarily for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the project's repository.
func New(opts ...Option) *Client {
	c := &Client{
		repo:    defaultRepo,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type release struct {
	TagName string `json:"tag_name"`
}

// LatestTag fetches the tag of the latest published release. It returns
// ("", nil) when the repository has no releases.
func (c *Client) LatestTag(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("query latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read release response: %w", err)
	}
	var rel release
	if err := json.Unmarshal(body, &rel); err != nil {
		return "", fmt.Errorf("parse release response: %w", err)
	}
	if rel.TagName == "" {
		return "", fmt.Errorf("release response carries no tag name")
	}
	return rel.TagName, nil
}

// CheckLatest compares the running version string against the latest
// release.
func (c *Client) CheckLatest(ctx context.Context, current string) (Check, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return Check{}, fmt.Errorf("parse current version %q: %w", current, err)
	}

	tag, err := c.LatestTag(ctx)
	if err != nil {
		return Check{}, err
	}
	if tag == "" {
		return Check{Status: StatusNoReleases, Current: cur}, nil
	}

	latest, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return Check{}, fmt.Errorf("parse release tag %q: %w", tag, err)
	}

	chk := Check{Status: StatusUpToDate, Current: cur, Latest: latest, LatestTag: tag}
	if latest.GreaterThan(cur) {
		chk.Status = StatusUpdateAvailable
	}
	return chk, nil
}
