package azure

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testResourceID = "/subscriptions/00000000-0000-0000-0000-000000000001/resourceGroups/rg-addin-dev/providers/Microsoft.Web/sites/func-addin-dev"
	testEndpoint   = "https://func-addin-dev.azurewebsites.net"
)

type staticCredential struct {
	token  string
	err    error
	scopes []string
}

func (c *staticCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	c.scopes = opts.Scopes
	if c.err != nil {
		return azcore.AccessToken{}, c.err
	}
	return azcore.AccessToken{Token: c.token, ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// recordingDeployer keeps the uploaded package instead of sending it.
type recordingDeployer struct {
	calls int
	app   *FunctionApp
	pkg   []byte
	err   error
}

func (d *recordingDeployer) ZipDeploy(ctx context.Context, app *FunctionApp, pkg io.Reader) error {
	d.calls++
	d.app = app
	data, err := io.ReadAll(pkg)
	if err != nil {
		return err
	}
	d.pkg = data
	return d.err
}

func zipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0644))
	}
}
