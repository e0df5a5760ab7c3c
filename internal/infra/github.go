package infra

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GitHubClient commits the customer snapshot file to a repository through the
// GitHub Contents API. The API requires the current blob SHA when updating an
// existing file; a concurrent commit between our GET and PUT yields a 409,
// which is resolved by re-reading the SHA and trying again.
type GitHubClient struct {
	baseURL    string
	token      string
	owner      string
	repo       string
	branch     string
	path       string
	httpClient *http.Client
}

func NewGitHubClient(token, owner, repo, branch, path string) *GitHubClient {
	return &GitHubClient{
		baseURL:    "https://api.github.com",
		token:      token,
		owner:      owner,
		repo:       repo,
		branch:     branch,
		path:       path,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether snapshot export is configured.
func (c *GitHubClient) Enabled() bool {
	return c.token != "" && c.owner != "" && c.repo != ""
}

const pushAttempts = 3

// PushSnapshot commits content to the configured path, retrying SHA conflicts.
func (c *GitHubClient) PushSnapshot(ctx context.Context, content []byte, message string) error {
	var lastErr error
	for attempt := 0; attempt < pushAttempts; attempt++ {
		sha, err := c.contentSHA(ctx)
		if err != nil {
			return err
		}
		err = c.putContents(ctx, content, message, sha)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isSHAConflict(err) {
			return err
		}
	}
	return fmt.Errorf("github: snapshot push: %w", lastErr)
}

type shaConflictError struct{ status int }

func (e *shaConflictError) Error() string {
	return fmt.Sprintf("github: contents SHA moved (status %d)", e.status)
}

func isSHAConflict(err error) bool {
	_, ok := err.(*shaConflictError)
	return ok
}

// contentSHA returns the current blob SHA of the snapshot file, or "" when the
// file does not exist yet.
func (c *GitHubClient) contentSHA(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s", c.baseURL, c.owner, c.repo, c.path, c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("github: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github: get contents returned %d", resp.StatusCode)
	}

	var result struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("github: decode contents response: %w", err)
	}
	return result.SHA, nil
}

func (c *GitHubClient) putContents(ctx context.Context, content []byte, message, sha string) error {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  c.branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, c.path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("github: create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: api unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return &shaConflictError{status: resp.StatusCode}
	default:
		return fmt.Errorf("github: put contents returned %d", resp.StatusCode)
	}
}

func (c *GitHubClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
