/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/josephgoksu/officekit/internal/azure"
	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/ui"
	"github.com/josephgoksu/officekit/types"
)

// printError prints err with a hint for the failures users can fix themselves.
func printError(err error) {
	writeError(os.Stderr, err)
}

func writeError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, ui.RenderError(err, hintFor(err)))
}

func hintFor(err error) string {
	var (
		cliErr    *types.CLIError
		buildErr  *azure.BuildDirNotFoundError
		outputErr *azure.MissingOutputError
		idErr     *azure.InvalidResourceIDError
		urlErr    *azure.InvalidEndpointError
		policyErr *azure.PolicyDeniedError
		deployErr *azure.DeployFailedError
	)
	switch {
	case errors.As(err, &cliErr):
		return cliErr.Hint
	case errors.As(err, &buildErr):
		return "build the function app first, or point --build-dir at its output"
	case errors.As(err, &outputErr):
		return fmt.Sprintf("provision the environment first so %s is written to %s", outputErr.Key, outputErr.EnvFile)
	case errors.As(err, &idErr):
		return "expected /subscriptions/<id>/resourceGroups/<rg>/providers/Microsoft.Web/sites/<name>"
	case errors.As(err, &urlErr):
		return "expected https://<app>.azurewebsites.net"
	case errors.As(err, &policyErr):
		return "adjust the deploy or the policies under " + config.GetPolicyDir()
	case errors.As(err, &deployErr):
		return "check the function app's deployment logs in the Azure portal"
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "run 'officekit config llm' or set the provider's API key environment variable"
	}
	return ""
}
