// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/janderssonse/appmod/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExitErrorFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		exitError       *domain.ExitError
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "exit error with underlying error",
			exitError:       domain.NewExitError(domain.ExitNetworkError, "Failed to load catalog", domain.ErrCatalogUnavailable),
			expectedCode:    domain.ExitNetworkError,
			expectedMessage: "Failed to load catalog: catalog unavailable",
		},
		{
			name:            "exit error without underlying error",
			exitError:       domain.NewExitError(domain.ExitUsageError, "missing slug argument", nil),
			expectedCode:    domain.ExitUsageError,
			expectedMessage: "missing slug argument",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expectedMessage, tc.exitError.Error())
			assert.Equal(t, tc.expectedCode, tc.exitError.Code)
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, domain.ExitSuccess},
		{"explicit exit error", domain.NewExitError(domain.ExitConfigError, "bad config", nil), domain.ExitConfigError},
		{"wrapped exit error", fmt.Errorf("run: %w", domain.NewExitError(domain.ExitUsageError, "usage", nil)), domain.ExitUsageError},
		{"not found", fmt.Errorf("resolve foo: %w", domain.ErrAppNotFound), domain.ExitNotFoundError},
		{"catalog unavailable", fmt.Errorf("%w: dial tcp", domain.ErrCatalogUnavailable), domain.ExitNetworkError},
		{"unknown", errors.New("boom"), domain.ExitGeneralError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, domain.ExitCodeFor(tc.err))
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		err              error
		slug             string
		verbose          bool
		shouldContain    []string
		shouldNotContain []string
	}{
		{
			name:             "not found with slug",
			err:              fmt.Errorf("resolve: %w", domain.ErrAppNotFound),
			slug:             "spotify",
			shouldContain:    []string{"App 'spotify' not found", "Check the slug spelling"},
			shouldNotContain: []string{"Technical details"},
		},
		{
			name:          "network failure verbose",
			err:           errors.New("catalog unavailable: dial tcp: lookup example.invalid: no such host"),
			verbose:       true,
			shouldContain: []string{"Catalog could not be downloaded", "Technical details", "Suggestions:", "• Verify the --source URL"},
		},
		{
			name:          "missing file",
			err:           errors.New("open databases/app.json: no such file or directory"),
			shouldContain: []string{"Catalog file could not be read", "(Verify the --source path)"},
		},
		{
			name:          "bad json",
			err:           errors.New("invalid character 'x' looking for beginning of value"),
			shouldContain: []string{"not a valid JSON array"},
		},
		{
			name:          "generic",
			err:           errors.New("something odd"),
			shouldContain: []string{"✗ Operation failed", "Run with --verbose"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			msg := domain.FormatErrorMessage(tc.err, tc.slug, tc.verbose)

			for _, s := range tc.shouldContain {
				assert.Contains(t, msg, s)
			}

			for _, s := range tc.shouldNotContain {
				assert.NotContains(t, msg, s)
			}
		})
	}
}

func TestGetErrorInfoNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.ErrorInfo{}, domain.GetErrorInfo(nil, "", true))
}
