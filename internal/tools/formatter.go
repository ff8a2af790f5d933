package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/modu-ai/devkit/internal/command"
	"github.com/modu-ai/devkit/internal/config"
)

// Formatter runs the configured source formatter.
type Formatter struct {
	tool
}

// NewFormatter creates a Formatter rooted at dir.
func NewFormatter(cfg config.ToolsConfig, runner command.Runner, dir string) *Formatter {
	filter := FileFilter{Extensions: cfg.Extensions, Exclude: cfg.Exclude}
	return &Formatter{tool: newTool("format", cfg.Formatter, filter, runner, dir)}
}

// Run formats files in place, or in check mode lists unformatted files and
// fails when there are any. The formatter reports offending files on
// stdout and exits zero, so check mode inspects the output.
func (f *Formatter) Run(ctx context.Context, files []string, check bool, stdout, stderr io.Writer) (*Result, error) {
	if !check {
		return f.run(ctx, f.cfg.FixArgs, files, stdout, stderr)
	}

	var listed bytes.Buffer
	res, err := f.run(ctx, f.cfg.CheckArgs, files, &listed, stderr)
	if err != nil || res.Skipped {
		return res, err
	}

	unformatted := f.filter.Apply(strings.Fields(listed.String()))
	if len(unformatted) == 0 {
		return res, nil
	}
	for _, file := range unformatted {
		_, _ = fmt.Fprintln(stdout, file)
	}
	return res, fmt.Errorf("format: %w", command.Failf("%d file(s) need formatting", len(unformatted)))
}
