package main

import (
	"os"
	"time"

	root "github.com/goliatone/go-selectfield"
	"github.com/goliatone/go-selectfield/pkg/orchestrator"
	"github.com/goliatone/go-selectfield/pkg/schema"
)

const httpTimeout = 10 * time.Second

func newHTTPLoader() schema.Loader {
	return root.NewLoader(schema.WithHTTPFallback(httpTimeout))
}

func loadPreset(path string) (*orchestrator.JSONPresetTransformer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return orchestrator.NewJSONPresetTransformer(data)
}
