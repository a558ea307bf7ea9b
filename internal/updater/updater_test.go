package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/FerrisMind/inspector-gguf/releases/latest" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLatestUpdateAvailable(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.4.0"}`)
	c := New(WithBaseURL(srv.URL))

	chk, err := c.CheckLatest(context.Background(), "1.2.3")
	if err != nil {
		t.Fatalf("CheckLatest: %v", err)
	}
	if chk.Status != StatusUpdateAvailable {
		t.Fatalf("status = %v", chk.Status)
	}
	if chk.LatestTag != "v1.4.0" {
		t.Errorf("tag = %q", chk.LatestTag)
	}
	if chk.Latest.String() != "1.4.0" {
		t.Errorf("latest = %s", chk.Latest)
	}
}

func TestCheckLatestUpToDate(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, http.StatusOK, `{"tag_name":"v1.2.3"}`)
	c := New(WithBaseURL(srv.URL))

	chk, err := c.CheckLatest(context.Background(), "v1.2.3")
	if err != nil {
		t.Fatalf("CheckLatest: %v", err)
	}
	if chk.Status != StatusUpToDate {
		t.Fatalf("status = %v", chk.Status)
	}
}

func TestCheckLatestNoReleases(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, http.StatusNotFound, `{"message":"Not Found"}`)
	c := New(WithBaseURL(srv.URL))

	chk, err := c.CheckLatest(context.Background(), "0.1.0")
	if err != nil {
		t.Fatalf("CheckLatest: %v", err)
	}
	if chk.Status != StatusNoReleases {
		t.Fatalf("status = %v", chk.Status)
	}
	if chk.Latest != nil {
		t.Errorf("latest should be unset, got %v", chk.Latest)
	}
}

func TestCheckLatestServerError(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, http.StatusInternalServerError, "")
	c := New(WithBaseURL(srv.URL))

	if _, err := c.CheckLatest(context.Background(), "1.0.0"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestCheckLatestBadCurrentVersion(t *testing.T) {
	t.Parallel()
	c := New()
	if _, err := c.CheckLatest(context.Background(), "not-a-version"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCheckLatestMissingTag(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, http.StatusOK, `{}`)
	c := New(WithBaseURL(srv.URL))

	if _, err := c.CheckLatest(context.Background(), "1.0.0"); err == nil {
		t.Fatal("expected error for response without tag_name")
	}
}
