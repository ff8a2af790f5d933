package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/modu-ai/devkit/internal/defs"
)

// Writer creates and deletes workflow and action files under a project root.
type Writer struct {
	root   string
	logger *slog.Logger
}

// NewWriter creates a Writer for the project at root.
func NewWriter(root string) *Writer {
	return &Writer{root: root, logger: slog.Default().With("module", "workflow")}
}

// WorkflowPath returns .github/workflows/<id>.yml under the root.
func (w *Writer) WorkflowPath(id string) string {
	return filepath.Join(w.root, defs.GitHubDir, defs.WorkflowsDir, id+".yml")
}

// ActionPath returns .github/actions/<id>/action.yml under the root.
func (w *Writer) ActionPath(id string) string {
	return filepath.Join(w.root, defs.GitHubDir, defs.ActionsDir, id, defs.ActionFile)
}

// WriteWorkflow renders wf to its workflow file, replacing any existing one.
func (w *Writer) WriteWorkflow(id string, wf *Workflow) (string, error) {
	return w.write(w.WorkflowPath(id), wf)
}

// DeleteWorkflow removes the workflow file. It reports false when the file
// did not exist.
func (w *Writer) DeleteWorkflow(id string) (bool, error) {
	return w.remove(w.WorkflowPath(id))
}

// WriteAction renders a to its action file, replacing any existing one.
func (w *Writer) WriteAction(id string, a *Action) (string, error) {
	return w.write(w.ActionPath(id), a)
}

// DeleteAction removes the action file. It reports false when the file did
// not exist.
func (w *Writer) DeleteAction(id string) (bool, error) {
	return w.remove(w.ActionPath(id))
}

func (w *Writer) write(path string, v any) (string, error) {
	data, err := Encode(v)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Debug("file written", "path", path)
	return path, nil
}

func (w *Writer) remove(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", path, err)
	}
	w.logger.Debug("file removed", "path", path)
	return true, nil
}
