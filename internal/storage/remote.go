package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/teamkit/roster/internal/apperrors"
)

// Remote speaks the blob contract against the hosted teams API. Collections
// live under /groups/{groupId}/{collection} and are fetched and replaced
// whole, mirroring the local backends.
type Remote struct {
	baseURL    string
	groupID    string
	httpClient *http.Client
}

// NewRemote builds a client for baseURL (e.g. "https://host/api") scoped to
// one group.
func NewRemote(baseURL, groupID string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		groupID: groupID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *Remote) url(key string) string {
	return fmt.Sprintf("%s/groups/%s/%s", s.baseURL, s.groupID, key)
}

// Get fetches the collection blob. A non-2xx response surfaces as an APIError
// carrying status and body; a 204, empty or non-JSON body is "no data", not an
// error.
func (s *Remote) Get(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(key), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "get", Key: key, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "get", Key: key, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.APIError{Status: resp.StatusCode, Body: string(body)}
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, nil
	}

	return body, nil
}

// Set replaces the collection blob with a PUT. A non-2xx response surfaces as
// an APIError.
func (s *Remote) Set(ctx context.Context, key string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url(key), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &apperrors.StorageError{Op: "set", Key: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &apperrors.APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return nil
}
