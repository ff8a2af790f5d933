package template

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Deployment outcomes.
const (
	ActionWritten = "written"
	ActionSkipped = "skipped"
)

// DeployResult records what happened to one file.
type DeployResult struct {
	Path   string
	Action string
}

// Deployer writes embedded templates into a project root.
type Deployer interface {
	// Deploy writes every template to projectRoot. Files ending in .tmpl
	// are rendered with tmplCtx and saved without the suffix. Existing
	// files are skipped unless the deployer forces updates.
	Deploy(ctx context.Context, projectRoot string, tmplCtx *TemplateContext) ([]DeployResult, error)

	// ListTemplates returns the deployment target paths of all templates.
	ListTemplates() []string
}

// deployer is the concrete implementation of Deployer.
type deployer struct {
	fsys        fs.FS
	renderer    Renderer
	forceUpdate bool
	logger      *slog.Logger
}

// NewDeployer creates a Deployer that renders .tmpl files with renderer.
// In production the fs.FS comes from go:embed; in tests use testing/fstest.MapFS.
func NewDeployer(fsys fs.FS, renderer Renderer, forceUpdate bool) Deployer {
	return &deployer{
		fsys:        fsys,
		renderer:    renderer,
		forceUpdate: forceUpdate,
		logger:      slog.Default().With("module", "template"),
	}
}

// Deploy walks the filesystem and writes every file to projectRoot.
func (d *deployer) Deploy(ctx context.Context, projectRoot string, tmplCtx *TemplateContext) ([]DeployResult, error) {
	projectRoot = filepath.Clean(projectRoot)

	var results []DeployResult
	walkErr := fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == "." || entry.IsDir() {
			return nil
		}

		if err := validateDeployPath(projectRoot, path); err != nil {
			return err
		}

		destRelPath, isTemplate := strings.CutSuffix(path, ".tmpl")
		destPath := filepath.Join(projectRoot, filepath.FromSlash(destRelPath))

		if !d.forceUpdate {
			if _, statErr := os.Stat(destPath); statErr == nil {
				d.logger.Debug("file exists, skipping", "path", destRelPath)
				results = append(results, DeployResult{Path: destRelPath, Action: ActionSkipped})
				return nil
			} else if !errors.Is(statErr, fs.ErrNotExist) {
				return fmt.Errorf("template deploy stat %q: %w", destPath, statErr)
			}
		}

		var content []byte
		if isTemplate {
			rendered, renderErr := d.renderer.Render(path, tmplCtx)
			if renderErr != nil {
				return fmt.Errorf("template render %q: %w", path, renderErr)
			}
			content = rendered
		} else {
			raw, readErr := fs.ReadFile(d.fsys, path)
			if readErr != nil {
				return fmt.Errorf("template deploy read %q: %w", path, readErr)
			}
			content = raw
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("template deploy mkdir %q: %w", filepath.Dir(destPath), err)
		}
		if err := os.WriteFile(destPath, content, 0o644); err != nil {
			return fmt.Errorf("template deploy write %q: %w", destPath, err)
		}

		results = append(results, DeployResult{Path: destRelPath, Action: ActionWritten})
		return nil
	})
	if walkErr != nil {
		return results, walkErr
	}
	return results, nil
}

// ListTemplates returns sorted deployment target paths.
func (d *deployer) ListTemplates() []string {
	var list []string
	_ = fs.WalkDir(d.fsys, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil || path == "." || entry.IsDir() {
			return nil
		}
		target, _ := strings.CutSuffix(path, ".tmpl")
		list = append(list, target)
		return nil
	})
	slices.Sort(list)
	return list
}

// validateDeployPath ensures a template path does not escape projectRoot.
func validateDeployPath(projectRoot, relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: parent reference in %q", ErrPathTraversal, relPath)
	}

	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	absPath := filepath.Join(absProjectRoot, cleaned)
	if !strings.HasPrefix(absPath, absProjectRoot+string(filepath.Separator)) && absPath != absProjectRoot {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}

	return nil
}
