package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephgoksu/officekit/internal/azure"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/types"
)

func TestReadPrompt(t *testing.T) {
	got, err := readPrompt([]string{"add", "a", "chart"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "add a chart", got)

	got, err = readPrompt(nil, strings.NewReader("  insert a table\n"))
	require.NoError(t, err)
	assert.Equal(t, "insert a table", got)

	_, err = readPrompt([]string{"  "}, nil)
	var cliErr *types.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.NotEmpty(t, cliErr.Hint)
}

func TestHintFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cli error", types.NewCLIError("bad", "do this", nil), "do this"},
		{"build dir", fmt.Errorf("function_deploy: %w", &azure.BuildDirNotFoundError{Path: "api"}), "build the function app"},
		{"missing output", &azure.MissingOutputError{Key: azure.OutputFunctionResourceID, EnvFile: "env/.env.dev"}, "env/.env.dev"},
		{"bad endpoint", &azure.InvalidEndpointError{Endpoint: "app", Reason: "expected an http or https URL"}, "azurewebsites.net"},
		{"missing key", fmt.Errorf("OpenAI %w", llm.ErrMissingAPIKey), "officekit config llm"},
		{"plain", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := hintFor(tt.err)
			if tt.want == "" {
				assert.Empty(t, hint)
				return
			}
			assert.Contains(t, hint, tt.want)
		})
	}
}

func TestWriteError_IncludesHint(t *testing.T) {
	var buf bytes.Buffer
	writeError(&buf, types.NewCLIError("no request given", "pass it as an argument", nil))
	assert.Contains(t, buf.String(), "no request given")
	assert.Contains(t, buf.String(), "pass it as an argument")
}
