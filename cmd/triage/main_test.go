package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI with args and returns what it wrote.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "usage error",
			err:        common.NewUserError("Please provide things", fmt.Errorf("%w: expected 3 arguments, got 1", common.ErrConfig)),
			wantCode:   exitUsage,
			wantStdout: "Please provide things\n",
		},
		{
			name:       "user message without config error",
			err:        common.NewUserError("Something broke", errors.New("disk full")),
			wantCode:   exitError,
			wantStderr: "Something broke: disk full",
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("failed to load messages: %w", common.ErrDataAccess),
			wantCode:   exitError,
			wantStderr: "failed to load messages: data access failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := reportError(&stdout, &stderr, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			if tt.wantStderr == "" {
				assert.Empty(t, stderr.String())
				return
			}
			assert.Contains(t, stderr.String(), cli.ErrorIcon)
			assert.Contains(t, stderr.String(), tt.wantStderr)
		})
	}
}

func TestWrongArgumentCount(t *testing.T) {
	tests := []struct {
		args      []string
		wantUsage string
	}{
		{[]string{"process", "messages.csv"}, "filepaths of the messages and categories datasets"},
		{[]string{"process", "a", "b", "c", "d"}, "filepaths of the messages and categories datasets"},
		{[]string{"train", "DisasterResponse.db"}, "filepath of the disaster messages database"},
		{[]string{"predict", "classifier.model"}, "filepath of a trained model"},
		{[]string{"summary"}, "filepath of the disaster messages database"},
		{[]string{"inspect"}, "filepath of a trained model"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.ErrorIs(t, err, common.ErrConfig)

			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, reportError(&stdout, &stderr, err))
			assert.Contains(t, stdout.String(), tt.wantUsage)
			assert.Contains(t, stdout.String(), "Example: triage "+tt.args[0])
			assert.Empty(t, stderr.String())
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "triage version dev\n", stdout)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "--log-level", "loud", "version")
	require.ErrorIs(t, err, common.ErrConfig)
}
