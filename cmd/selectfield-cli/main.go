package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-selectfield/pkg/form"
	"github.com/goliatone/go-selectfield/pkg/orchestrator"
	"github.com/goliatone/go-selectfield/pkg/render"
	"github.com/goliatone/go-selectfield/pkg/renderers/tui"
	"github.com/goliatone/go-selectfield/pkg/renderers/vanilla"
	"github.com/goliatone/go-selectfield/pkg/schema"
	"github.com/goliatone/go-selectfield/pkg/selectfield"
	"github.com/goliatone/go-selectfield/pkg/validation"
)

type options struct {
	source      string
	field       string
	renderer    string
	checkboxes  bool
	disabled    bool
	label       string
	placeholder string
	value       string
	transform   string
	operation   string
	component   string
	preset      string
	format      string
	output      string
	validate    bool
	sanitize    bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.source, "source", "", "schema document path or URL (YAML, JSON or OpenAPI)")
	flag.StringVar(&opts.field, "field", "", "field name to render")
	flag.StringVar(&opts.renderer, "renderer", "vanilla", "renderer to use (vanilla or tui)")
	flag.BoolVar(&opts.checkboxes, "checkboxes", false, "render one input per option instead of a dropdown")
	flag.BoolVar(&opts.disabled, "disabled", false, "render the field disabled")
	flag.StringVar(&opts.label, "label", "", "label override")
	flag.StringVar(&opts.placeholder, "placeholder", "", "dropdown placeholder override")
	flag.StringVar(&opts.value, "value", "", "current value; comma separated for array fields")
	flag.StringVar(&opts.transform, "transform", "", "option label transform (upper, lower or title)")
	flag.StringVar(&opts.operation, "operation", "", "OpenAPI operation id whose request body defines the fields")
	flag.StringVar(&opts.component, "component", "", "OpenAPI component schema that defines the fields")
	flag.StringVar(&opts.preset, "preset", "", "JSON preset applied to the schema before rendering")
	flag.StringVar(&opts.format, "format", string(tui.OutputFormatJSON), "tui output format (json, form or pretty)")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.BoolVar(&opts.validate, "validate", false, "report schema violations of the current value as field errors")
	flag.BoolVar(&opts.sanitize, "sanitize", false, "strip markup from label and option text instead of escaping it")
	flag.BoolVar(&opts.verbose, "verbose", false, "log pipeline stages and changes")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			logger.Info("aborted")
			os.Exit(130)
		}
		logger.Error("selectfield failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	src, err := schema.ParseSource(opts.source)
	if err != nil {
		return fmt.Errorf("invalid -source: %w", err)
	}
	if strings.TrimSpace(opts.field) == "" {
		return errors.New("-field is required")
	}
	transform, err := parseTransform(opts.transform)
	if err != nil {
		return err
	}

	orchOptions := []orchestrator.Option{orchestrator.WithLogger(logger)}
	if src.Kind() == schema.SourceKindURL {
		orchOptions = append(orchOptions, orchestrator.WithLoader(newHTTPLoader()))
	}
	if opts.preset != "" {
		preset, err := loadPreset(opts.preset)
		if err != nil {
			return err
		}
		orchOptions = append(orchOptions, orchestrator.WithSchemaTransformer(preset))
	}

	req := orchestrator.Request{
		Source:      src,
		OperationID: opts.operation,
		Component:   opts.component,
		Renderer:    opts.renderer,
		Validate:    opts.validate,
		Props: selectfield.Props{
			Name:        opts.field,
			Checkboxes:  opts.checkboxes,
			Disabled:    opts.disabled,
			Label:       opts.label,
			Placeholder: opts.placeholder,
			Transform:   transform,
		},
	}
	if value := parseValue(opts.value); value != nil {
		req.Model = map[string]any{opts.field: value}
	}

	var output []byte
	switch opts.renderer {
	case "tui":
		output, err = runSession(ctx, req, orchOptions, opts.format, logger)
	case "vanilla", "":
		var vanillaOptions []vanilla.Option
		if opts.sanitize {
			vanillaOptions = append(vanillaOptions, vanilla.WithSanitizer(bluemonday.StrictPolicy()))
		}
		output, err = generate(ctx, req, orchOptions, vanillaOptions...)
	default:
		return fmt.Errorf("unknown renderer %q", opts.renderer)
	}
	if err != nil {
		return err
	}
	return writeOutput(opts.output, output, logger)
}

func generate(ctx context.Context, req orchestrator.Request, orchOptions []orchestrator.Option, vanillaOptions ...vanilla.Option) ([]byte, error) {
	renderer, err := vanilla.New(vanillaOptions...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	gen := orchestrator.New(append(orchOptions, orchestrator.WithRegistry(registry))...)
	return gen.Generate(ctx, req)
}

// runSession loads the schema through the orchestrator and then drives the
// field interactively until it settles.
func runSession(ctx context.Context, req orchestrator.Request, orchOptions []orchestrator.Option, format string, logger *slog.Logger) ([]byte, error) {
	bundle, err := orchestrator.New(orchOptions...).Load(ctx, req)
	if err != nil {
		return nil, err
	}
	def, err := bundle.Schema.Lookup(req.Props.Name)
	if err != nil {
		return nil, err
	}
	props := orchestrator.FieldProps(def, req.Props)

	renderer, err := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(format)),
		tui.WithTheme(tui.Theme{ErrorPrefix: "! "}),
	)
	if err != nil {
		return nil, err
	}
	var sessionOptions []tui.SessionOption
	if req.Validate {
		result := validation.New(bundle.Schema).Model(bundle.Model, props.Name)
		sessionOptions = append(sessionOptions, tui.WithErrors(result.Merge(nil)))
	}
	store := form.NewStore(bundle.Model, form.WithLogger(logger))
	return tui.NewSession(renderer, store, bundle.Schema, props, sessionOptions...).Run(ctx)
}

func writeOutput(path string, data []byte, logger *slog.Logger) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("field written", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}

func parseTransform(name string) (func(string) string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "upper":
		return cases.Upper(language.Und).String, nil
	case "lower":
		return cases.Lower(language.Und).String, nil
	case "title":
		return cases.Title(language.Und).String, nil
	default:
		return nil, fmt.Errorf("unknown transform %q", name)
	}
}

func parseValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if !strings.Contains(trimmed, ",") {
		return trimmed
	}
	parts := strings.Split(trimmed, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
