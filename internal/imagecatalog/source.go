// Package imagecatalog loads the read-only image reference dataset and
// answers image lookups for exercise names.
package imagecatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jtylerm/PTExerciseApp/internal/matching"
)

// Source supplies the full image reference dataset in one shot.
type Source interface {
	Load(ctx context.Context) ([]matching.Entry, error)
}

// HTTPSource fetches the dataset snapshot from a fixed remote location.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSource constructs the source.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Load downloads and decodes the dataset snapshot.
func (s *HTTPSource) Load(ctx context.Context) ([]matching.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image dataset fetch failed: %s", resp.Status)
	}

	var entries []matching.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}
