package options

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type responseOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type optionsResponse struct {
	Data []responseOption `json:"data"`
}

// Handler serves the options of the field named by the field query
// parameter. Missing names answer 400 and unknown fields 404.
func Handler(bridge schema.Bridge, fns ...ConfigFn) http.Handler {
	return HandlerWithConfig(bridge, NewConfig(fns...))
}

// HandlerWithConfig builds the handler from a pre-built Config. Defaults are
// re-applied so a zero Config is usable.
func HandlerWithConfig(bridge schema.Bridge, cfg Config) http.Handler {
	cfg = normalize(cfg)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if cfg.Guard != nil {
			if err := cfg.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		query := r.URL.Query()
		name := strings.TrimSpace(query.Get(cfg.FieldParam))
		if name == "" {
			http.Error(w, "missing "+cfg.FieldParam+" parameter", http.StatusBadRequest)
			return
		}
		if bridge == nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		def, ok := bridge.Field(name)
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		all := selectfield.BuildOptions(def.AllowedValues, cfg.Transform)
		results := Search(all, query.Get(cfg.SearchParam), parseInt(query.Get(cfg.LimitParam)), cfg)

		payload := optionsResponse{Data: make([]responseOption, 0, len(results))}
		for _, opt := range results {
			payload.Data = append(payload.Data, responseOption{Value: opt.Value, Label: opt.Label})
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(payload)
	})
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
