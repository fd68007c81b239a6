// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors.
var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrAppNotFound        = errors.New("app not found")
	ErrEmptySlug          = errors.New("empty slug")
	ErrDownloadNotReady   = errors.New("download links not ready")
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess       = 0  // Operation completed successfully
	ExitGeneralError  = 1  // Generic failure (catch-all)
	ExitUsageError    = 2  // Invalid command line usage
	ExitConfigError   = 3  // Configuration file error
	ExitNotFoundError = 5  // Requested app not found
	ExitNetworkError  = 11 // Catalog fetch failed
	ExitSystemError   = 12 // Lock or filesystem failure
	ExitInterrupt     = 14 // User interrupted (Ctrl+C)
)

// ExitError carries a process exit code out of the command tree.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFor maps a domain error to the exit code the CLI reports for it.
func ExitCodeFor(err error) int {
	var exitErr *ExitError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, ErrAppNotFound), errors.Is(err, ErrEmptySlug):
		return ExitNotFoundError
	case errors.Is(err, ErrCatalogUnavailable):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

type errorMatcher struct {
	patterns []string
	getInfo  func(slug string, verbose bool) ErrorInfo
}

func getErrorMatchers() []errorMatcher {
	return []errorMatcher{
		{
			patterns: []string{"app not found", "empty slug"},
			getInfo: func(slug string, verbose bool) ErrorInfo {
				if slug != "" {
					return ErrorInfo{
						Message:     "App '" + slug + "' not found",
						Suggestions: []string{"Check the slug spelling", "Use 'appmod list' to see available slugs"},
						ShowDetails: verbose,
					}
				}

				return ErrorInfo{
					Message:     "App not found",
					Suggestions: []string{"Use 'appmod list' to see available slugs"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"connection", "timeout", "no such host", "status"},
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Catalog could not be downloaded",
					Suggestions: []string{"Check your internet connection", "Verify the --source URL"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"no such file", "permission denied"},
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Catalog file could not be read",
					Suggestions: []string{"Verify the --source path", "Set APPMOD_SOURCE or catalog.source in config.toml"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"invalid character", "cannot unmarshal", "unexpected end of json"},
			getInfo: func(_ string, verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Catalog is not a valid JSON array of apps",
					Suggestions: []string{"Validate the data file with a JSON linter"},
					ShowDetails: verbose,
				}
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, slug string, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	errStr := strings.ToLower(err.Error())

	for _, matcher := range getErrorMatchers() {
		for _, pattern := range matcher.patterns {
			if strings.Contains(errStr, pattern) {
				return matcher.getInfo(slug, verbose)
			}
		}
	}

	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats an error for display.
func FormatErrorMessage(err error, slug string, verbose bool) string {
	info := GetErrorInfo(err, slug, verbose)

	var result strings.Builder

	result.WriteString("✗ ")
	result.WriteString(info.Message)

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	switch {
	case len(info.Suggestions) > 0 && !verbose:
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	case len(info.Suggestions) > 0:
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
