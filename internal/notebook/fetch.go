package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// maxNotebookSize caps how much of a response body is read.
const maxNotebookSize = 64 << 20

// Fetcher retrieves the raw bytes behind a notebook reference. Failures are
// reported as *TransportError.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}

// HTTPFetcher retrieves absolute http(s) references.
type HTTPFetcher struct {
	client *http.Client
	// UserAgent is sent with every request when set.
	UserAgent string
}

// NewHTTPFetcher creates a fetcher whose client gives up after timeout.
// A zero timeout means requests are bounded only by the caller's context.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// NewHTTPFetcherWithClient creates a fetcher that uses the given client.
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch issues a GET for ref and returns the body of a 2xx response.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, &TransportError{Ref: ref, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/x-ipynb+json, application/json;q=0.9, */*;q=0.5")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{Ref: ref, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Ref:        ref,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxNotebookSize))
	if err != nil {
		return nil, &TransportError{Ref: ref, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// DirFetcher resolves slash-rooted references such as "/notebooks/a.ipynb"
// against a file system.
type DirFetcher struct {
	fsys fs.FS
}

// NewDirFetcher creates a fetcher reading from fsys.
func NewDirFetcher(fsys fs.FS) *DirFetcher {
	return &DirFetcher{fsys: fsys}
}

// Fetch reads the file named by ref.
func (f *DirFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Ref: ref, Err: err}
	}

	name, err := CleanRef(ref)
	if err != nil {
		return nil, &TransportError{Ref: ref, Err: err}
	}

	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, &TransportError{Ref: ref, Err: err}
	}
	return data, nil
}

// CleanRef turns a local reference into an fs.FS path, rejecting references
// that climb out of the root.
func CleanRef(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "", errors.New("empty reference")
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", errors.New("path traversal detected")
		}
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
	if cleaned == "" || cleaned == "." || !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("invalid reference %q", ref)
	}
	return cleaned, nil
}

// RouteFetcher sends absolute http(s) references to Remote and everything else
// to Local.
type RouteFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

// Fetch dispatches on the reference scheme.
func (f *RouteFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if IsRemote(ref) {
		if f.Remote == nil {
			return nil, &TransportError{Ref: ref, Err: errors.New("remote references are not enabled")}
		}
		return f.Remote.Fetch(ctx, ref)
	}
	if f.Local == nil {
		return nil, &TransportError{Ref: ref, Err: errors.New("local references are not enabled")}
	}
	return f.Local.Fetch(ctx, ref)
}

// IsRemote reports whether ref is an absolute http or https URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
