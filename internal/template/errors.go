package template

import "errors"

// Sentinel errors for template rendering and deployment.
var (
	// ErrTemplateNotFound indicates the named template is not embedded.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates the data lacks a key the template uses.
	ErrMissingTemplateKey = errors.New("template: missing key")

	// ErrUnexpandedToken indicates a placeholder survived rendering.
	ErrUnexpandedToken = errors.New("template: unexpanded token")

	// ErrPathTraversal indicates a template path escapes the project root.
	ErrPathTraversal = errors.New("template: path traversal")
)
