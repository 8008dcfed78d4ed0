package options

import (
	"sort"
	"strings"

	"github.com/goliatone/go-selectfield/pkg/selectfield"
)

// Search filters options whose value or label contains query, ignoring case.
// Prefix matches come first; otherwise allowed-value order is kept.
func Search(options []selectfield.Option, query string, limit int, cfg Config) []selectfield.Option {
	limit = clampLimit(limit, cfg)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if cfg.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(options) <= limit {
			return append([]selectfield.Option{}, options...)
		}
		return append([]selectfield.Option{}, options[:limit]...)
	}

	q := strings.ToLower(query)
	matches := make([]matchedOption, 0, len(options))
	for _, opt := range options {
		value := strings.ToLower(opt.Value)
		label := strings.ToLower(opt.Label)
		if !strings.Contains(value, q) && !strings.Contains(label, q) {
			continue
		}
		matches = append(matches, matchedOption{
			option:   opt,
			isPrefix: strings.HasPrefix(value, q) || strings.HasPrefix(label, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]selectfield.Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.option)
	}
	return out
}

type matchedOption struct {
	option   selectfield.Option
	isPrefix bool
}
