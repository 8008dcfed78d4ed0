package schema

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// Document wraps a raw schema payload together with its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// IsOpenAPI reports whether the payload declares a top-level `openapi`
// version key. YAML decoding covers JSON payloads too; nested keys named
// openapi do not count.
func (d Document) IsOpenAPI() bool {
	var head struct {
		OpenAPI any `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(d.raw, &head); err != nil {
		return false
	}
	return head.OpenAPI != nil
}
