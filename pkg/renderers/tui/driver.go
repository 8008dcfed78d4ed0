package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// SelectConfig configures a single-choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// PromptDriver performs the terminal interaction. Select returns the index
// of the chosen option; out-of-range indices are retried by the renderer.
type PromptDriver interface {
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

// SurveyDriver is the PromptDriver backed by survey.
type SurveyDriver struct {
	in     terminal.FileReader
	out    terminal.FileWriter
	errOut io.Writer
}

// DriverOption configures a SurveyDriver.
type DriverOption func(*SurveyDriver)

// WithStdio routes prompts through the given streams instead of the process
// stdio.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) DriverOption {
	return func(d *SurveyDriver) {
		d.in = in
		d.out = out
		d.errOut = errOut
	}
}

// NewSurveyDriver builds a driver on os.Stdin/os.Stdout/os.Stderr unless
// WithStdio says otherwise.
func NewSurveyDriver(options ...DriverOption) *SurveyDriver {
	d := &SurveyDriver{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

var _ PromptDriver = (*SurveyDriver)(nil)

func (d *SurveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.DefaultIndex
	}

	askOpts := []survey.AskOpt{survey.WithStdio(d.in, d.out, d.errOut)}
	if cfg.PageSize > 0 {
		askOpts = append(askOpts, survey.WithPageSize(cfg.PageSize))
	}

	var idx int
	if err := survey.AskOne(prompt, &idx, askOpts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return 0, ErrAborted
		}
		return 0, fmt.Errorf("tui: prompt %q: %w", cfg.Message, err)
	}
	return idx, nil
}

func (d *SurveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
