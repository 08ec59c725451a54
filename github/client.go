// Package github stores portfolio files in a GitHub repository through the
// contents API.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/skinfolio"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAPIURL = "https://api.github.com"
	DefaultRawURL = "https://raw.githubusercontent.com"
)

// Store is a skinfolio.LedgerStore on a branch of a GitHub repository.
//
// The version of a file is its blob sha. Without a token, files are read from
// the raw content host and the store is read-only.
type Store struct {
	Owner  string
	Repo   string
	Branch string
	Token  string

	APIURL string
	RawURL string
	Client *http.Client
}

// New returns a store on owner/repo at branch. An empty token makes a read-only store.
func New(owner, repo, branch, token string) *Store {
	if branch == "" {
		branch = "main"
	}
	return &Store{
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Token:  token,
		APIURL: DefaultAPIURL,
		RawURL: DefaultRawURL,
		Client: &http.Client{Timeout: 20 * time.Second},
	}
}

// ReadOnly reports whether the store has no token to write with.
func (s *Store) ReadOnly() bool { return s.Token == "" }

func (s *Store) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", strings.TrimSuffix(s.APIURL, "/"), s.Owner, s.Repo, strings.TrimPrefix(path, "/"))
}

func (s *Store) rawURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", strings.TrimSuffix(s.RawURL, "/"), s.Owner, s.Repo, s.Branch, strings.TrimPrefix(path, "/"))
}

func (s *Store) do(ctx context.Context, method, addr string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, addr, body)
	if err != nil {
		return nil, err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("method", method).Str("host", resp.Request.URL.Host).Str("path", resp.Request.URL.Path).Str("status", resp.Status).Msg("github")
	return resp, nil
}

// contents is the part of a contents API answer we read.
type contents struct {
	Type        string `json:"type"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url"`
}

// Read implements skinfolio.LedgerStore.
func (s *Store) Read(ctx context.Context, path string) (content, version string, found bool, err error) {
	if s.ReadOnly() {
		content, found, err = s.readRaw(ctx, s.rawURL(path))
		return content, "", found, err
	}

	addr := s.contentsURL(path) + "?ref=" + url.QueryEscape(s.Branch)
	resp, err := s.do(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", "", false, fmt.Errorf("cannot GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", "", false, nil
	case resp.StatusCode != http.StatusOK:
		return "", "", false, fmt.Errorf("cannot GET %s: %v", path, resp.Status)
	}

	var c contents
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return "", "", false, fmt.Errorf("cannot decode contents of %s: %w", path, err)
	}
	if c.Type != "" && c.Type != "file" {
		return "", "", false, fmt.Errorf("%s is a %s, not a file", path, c.Type)
	}
	if c.Encoding == "none" && c.DownloadURL != "" {
		// files over 1MB are not inlined.
		content, _, err = s.readRaw(ctx, c.DownloadURL)
		return content, c.SHA, true, err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\n", "", "\r", "").Replace(c.Content))
	if err != nil {
		return "", "", false, fmt.Errorf("cannot decode base64 content of %s: %w", path, err)
	}
	return string(raw), c.SHA, true, nil
}

// readRaw downloads a file body.
func (s *Store) readRaw(ctx context.Context, addr string) (content string, found bool, err error) {
	resp, err := s.do(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return "", false, fmt.Errorf("cannot GET %s: %w", addr, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", false, nil
	case resp.StatusCode != http.StatusOK:
		return "", false, fmt.Errorf("cannot GET %s: %v", addr, resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// Write implements skinfolio.LedgerStore.
//
// A stale version is rejected by GitHub with 409, or 422 when the sha is
// missing or malformed; both are reported as skinfolio.ErrConflict.
func (s *Store) Write(ctx context.Context, path, content, version, message string) (string, error) {
	if s.ReadOnly() {
		return "", fmt.Errorf("cannot write %s without a token: %w", path, skinfolio.ErrReadOnly)
	}
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"branch":  s.Branch,
	}
	if version != "" {
		payload["sha"] = version
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	resp, err := s.do(ctx, http.MethodPut, s.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("cannot PUT %s: %w", path, err)
	}
	defer resp.Body.Close()
	answer, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cannot PUT %s: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusConflict:
		return "", fmt.Errorf("cannot PUT %s at %q: %w", path, version, skinfolio.ErrConflict)
	case resp.StatusCode == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(string(answer)), "sha"):
		return "", fmt.Errorf("cannot PUT %s at %q: %w: %s", path, version, skinfolio.ErrConflict, answer)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return "", fmt.Errorf("cannot PUT %s: %v: %s", path, resp.Status, answer)
	}

	var jobj any
	if err := json.Unmarshal(answer, &jobj); err != nil {
		return "", fmt.Errorf("cannot decode PUT %s answer: %w", path, err)
	}
	sha, err := jsonpath.Get("$.content.sha", jobj)
	if err != nil {
		return "", fmt.Errorf("cannot find the new sha of %s: %w", path, err)
	}
	newVersion, ok := sha.(string)
	if !ok || newVersion == "" {
		return "", fmt.Errorf("cannot find the new sha of %s: got %v", path, sha)
	}
	log.Info().Str("path", path).Str("sha", newVersion).Msg(message)
	return newVersion, nil
}
