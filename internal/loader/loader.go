package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-selectfield/pkg/schema"
)

// Loader implements schema.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	maxBytes  int64
}

// Ensure the implementation satisfies the public interface.
var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	maxBytes := options.MaxBytes
	if maxBytes == 0 {
		maxBytes = schema.DefaultMaxDocumentBytes
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		maxBytes:  maxBytes,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("schema loader: source is nil")
	}

	body, err := l.open(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	defer func() {
		_ = body.Close()
	}()

	data, err := l.read(body, src.Location())
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(src, data)
}

func (l *Loader) open(ctx context.Context, src schema.Source) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch src.Kind() {
	case schema.SourceKindFile:
		return openFile(src.Location())
	case schema.SourceKindFS:
		return openFromFS(l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return nil, errors.New("schema loader: http support disabled")
		}
		return openHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		return nil, fmt.Errorf("schema loader: unsupported source kind %q", src.Kind())
	}
}

// read drains body, failing once it exceeds the configured cap.
func (l *Loader) read(body io.Reader, location string) ([]byte, error) {
	if l.maxBytes < 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("schema loader: read %s: %w", location, err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("schema loader: read %s: %w", location, err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("schema loader: %s exceeds %d bytes", location, l.maxBytes)
	}
	return data, nil
}

func openFile(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("schema loader: file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("schema loader: open %s: %w", path, err)
	}
	return f, nil
}

func openFromFS(files fs.FS, name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, errors.New("schema loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("schema loader: fs is nil")
	}
	f, err := files.Open(name)
	if err != nil {
		return nil, fmt.Errorf("schema loader: open %s: %w", name, err)
	}
	return f, nil
}

// openHTTP returns the response body; the request context stays alive until
// the body is closed.
func openHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) (io.ReadCloser, error) {
	if client == nil {
		return nil, errors.New("schema loader: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("schema loader: url is required")
	}

	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("schema loader: fetch %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("schema loader: fetch %s: unexpected status %s", url, resp.Status)
	}
	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
