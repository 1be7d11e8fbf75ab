package modelbundle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/screenaware/screenaware/internal/resilience"
)

// HTTPSource reads artifacts from a remote artifact store, one GET per file
// under BaseURL.
type HTTPSource struct {
	BaseURL string
	Client  *resilience.Client
}

// NewHTTPSource creates a source backed by a resilient client.
func NewHTTPSource(baseURL string, client *resilience.Client) *HTTPSource {
	if client == nil {
		client = resilience.NewClient(resilience.DefaultConfig("artifact-store"))
	}
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
	}
}

// Open fetches the named artifact.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := s.Client.Get(ctx, s.BaseURL+"/"+name)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", name, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string {
	return s.BaseURL
}
