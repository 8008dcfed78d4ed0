package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches schema documents from files, an fs.FS or HTTP.
// The implementation lives under internal/loader; construct it through the
// module root (selectfield.NewLoader).
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources. HTTP stays disabled
// unless a client is injected or the fallback is enabled.
type LoaderOptions struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
	// MaxBytes caps the document size for every source kind. Zero selects
	// DefaultMaxDocumentBytes; negative disables the cap.
	MaxBytes int64
}

// DefaultMaxDocumentBytes is the document size cap used when none is set.
const DefaultMaxDocumentBytes int64 = 4 << 20

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS used for SourceFromFS locations.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithMaxBytes caps the size of loaded documents.
func WithMaxBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.MaxBytes = limit
	}
}

// NewLoaderOptions applies options and returns the resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
