package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"practice-quiz-service/internal/domain"
)

// maxDocumentSize caps how much of a quiz document is read.
const maxDocumentSize = 4 << 20

// Loader reads quiz documents from local files or http(s) URLs.
// Each call makes a single attempt; failures wrap domain.ErrLoad.
type Loader struct {
	client *http.Client
}

func New() *Loader {
	return &Loader{client: &http.Client{Timeout: 15 * time.Second}}
}

// NewWithClient lets callers supply their own HTTP client.
func NewWithClient(client *http.Client) *Loader {
	return &Loader{client: client}
}

func (l *Loader) LoadText(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLoad, err)
	}
	defer f.Close()
	return readLimited(f, source)
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLoad, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLoad, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", domain.ErrLoad, url, resp.Status)
	}
	return readLimited(resp.Body, url)
}

func readLimited(r io.Reader, source string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrLoad, source, err)
	}
	if len(data) > maxDocumentSize {
		return "", fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrLoad, source, maxDocumentSize)
	}
	return string(data), nil
}
