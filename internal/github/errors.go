package github

import "errors"

// Sentinel errors for GitHub CLI operations.
var (
	// ErrGHNotFound indicates the gh binary is not on PATH.
	ErrGHNotFound = errors.New("github: gh CLI not found")

	// ErrGHNotAuthenticated indicates gh has no valid login.
	ErrGHNotAuthenticated = errors.New("github: gh CLI not authenticated")

	// ErrPRNotFound indicates the pull request does not exist.
	ErrPRNotFound = errors.New("github: pull request not found")

	// ErrInvalidPRURL indicates a malformed pull request URL.
	ErrInvalidPRURL = errors.New("github: invalid pull request URL")

	// ErrUnsupportedMergeMethod indicates a merge method gh does not know.
	ErrUnsupportedMergeMethod = errors.New("github: unsupported merge method")
)
