package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Bundle is the result of parsing a schema document: the field definitions
// plus any initial model values the document carries.
type Bundle struct {
	Source string
	Schema *Schema
	Model  map[string]any
}

type documentFile struct {
	Fields map[string]fieldFile `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
	Model  map[string]any       `json:"model" yaml:"model"`
}

type fieldFile struct {
	Type          string `json:"type" yaml:"type" validate:"omitempty,oneof=string number integer boolean scalar array list multi String Number Array"`
	AllowedValues []any  `json:"allowedValues" yaml:"allowedValues" validate:"omitempty,dive,required"`
	Required      bool   `json:"required" yaml:"required"`
	Label         string `json:"label" yaml:"label" validate:"max=256"`
	Placeholder   string `json:"placeholder" yaml:"placeholder" validate:"max=256"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func documentValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ParseDocument decodes a JSON or YAML schema document. JSON is attempted
// first; YAML is the fallback, matching how UI schema files are read.
func ParseDocument(doc Document) (Bundle, error) {
	raw := doc.Raw()
	source := doc.Location()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Bundle{}, fmt.Errorf("schema: file %s is empty", source)
	}

	var file documentFile
	if err := json.Unmarshal(raw, &file); err != nil {
		file = documentFile{}
		if yerr := yaml.Unmarshal(raw, &file); yerr != nil {
			return Bundle{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
		}
	}

	if err := documentValidator().Struct(file); err != nil {
		return Bundle{}, fmt.Errorf("schema: validate %s: %w", source, describeValidation(err))
	}

	bundle := Bundle{
		Source: source,
		Schema: New(),
		Model:  cloneModel(file.Model),
	}
	for name, field := range file.Fields {
		key := strings.TrimSpace(name)
		if key == "" {
			return Bundle{}, fmt.Errorf("schema: file %s defines a field with an empty name", source)
		}
		def := Definition{
			Name:          key,
			Type:          ParseValueType(field.Type),
			AllowedValues: stringifyValues(field.AllowedValues),
			Required:      field.Required,
			Label:         strings.TrimSpace(field.Label),
			Placeholder:   strings.TrimSpace(field.Placeholder),
		}
		if err := bundle.Schema.Define(def); err != nil {
			return Bundle{}, fmt.Errorf("schema: file %s field %q: %w", source, key, err)
		}
	}
	return bundle, nil
}

// LoadFS walks fsys and merges every JSON/YAML schema document it finds.
// Duplicate field names across files are rejected.
func LoadFS(fsys fs.FS) (Bundle, error) {
	merged := Bundle{Schema: New(), Model: map[string]any{}}
	if fsys == nil {
		return merged, nil
	}

	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		doc, err := NewDocument(SourceFromFS(path), data)
		if err != nil {
			return fmt.Errorf("schema: %s: %w", path, err)
		}
		bundle, err := ParseDocument(doc)
		if err != nil {
			return err
		}

		for _, name := range bundle.Schema.allNames() {
			if prev, exists := seen[name]; exists {
				return fmt.Errorf("schema: duplicate field %q (files %s and %s)", name, prev, path)
			}
			seen[name] = path
			def, _ := bundle.Schema.raw(name)
			if err := merged.Schema.Define(def); err != nil {
				return err
			}
		}
		for key, value := range bundle.Model {
			merged.Model[key] = value
		}
		return nil
	})
	if err != nil {
		return Bundle{}, err
	}
	return merged, nil
}

func (s *Schema) allNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) raw(name string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.fields[name]
	return def.Clone(), ok
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(messages, "; "))
}

func stringifyValues(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func cloneModel(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[strings.TrimSpace(key)] = value
	}
	return out
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
