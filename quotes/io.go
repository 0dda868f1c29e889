package quotes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/xhhuango/json"
)

// Decode reads a quote document from r.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read quotes: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quotes: %w", err)
	}
	return doc, nil
}

// Load reads a quote document from a file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Fetch downloads a quote document over HTTP. A non-empty token is sent as a
// bearer token.
func Fetch(ctx context.Context, client *http.Client, url, token string) (*Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if token != "" {
		r.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	r.Header.Add("Accept", "application/json")

	resp, err := client.Do(r)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch quotes: %s", resp.Status)
	}
	return Decode(resp.Body)
}

// WriteResults writes v as indented JSON to path.
func WriteResults(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
