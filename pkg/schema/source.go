package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source names a schema document location. Loaders switch on Kind.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type location struct {
	kind SourceKind
	path string
}

func (l location) Kind() SourceKind { return l.kind }

func (l location) Location() string { return l.path }

func (l location) String() string { return string(l.kind) + ":" + l.path }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return location{kind: SourceKindFile, path: filepath.Clean(path)}
}

// SourceFromFS returns a Source naming an entry inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return location{kind: SourceKindFS, path: strings.TrimPrefix(name, "/")}
}

// SourceFromURL returns a Source for an http(s) document. It panics on an
// invalid URL; use ParseSource for user input.
func SourceFromURL(raw string) Source {
	src, err := urlSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseSource classifies user input: http(s) URLs become URL sources and
// everything else a file path.
func ParseSource(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("schema: empty source")
	}
	if IsRemote(trimmed) {
		return urlSource(trimmed)
	}
	return SourceFromFile(trimmed), nil
}

// IsRemote reports whether raw looks like an http(s) location.
func IsRemote(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

func urlSource(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return location{kind: SourceKindURL, path: raw}, nil
}
