package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrMissing reports a snapshot file that does not exist. The seeder treats it
// as an empty collection.
var ErrMissing = errors.New("snapshot file missing")

type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	String() string
}

type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	return b, nil
}

func (s *DirSource) String() string {
	return "dir:" + s.dir
}

// HTTPSource fetches snapshot files relative to a base URL.
type HTTPSource struct {
	baseURL string
	client  *resty.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")

	return &HTTPSource{
		baseURL: baseURL,
		client:  client,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.R().SetContext(ctx).Get("/" + name)
	if err != nil {
		return nil, fmt.Errorf("error while fetching %s: %w", name, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrMissing
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("unexpected status code fetching %s: %d - status: %s", name, resp.StatusCode(), resp.Status())
	}

	return resp.Body(), nil
}

func (s *HTTPSource) String() string {
	return "url:" + s.baseURL
}
