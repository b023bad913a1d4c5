package azure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// ManagementScope is the token scope accepted by the Kudu (SCM) endpoints.
const ManagementScope = "https://management.azure.com/.default"

// DefaultDeployTimeout bounds one zip deploy request.
const DefaultDeployTimeout = 10 * time.Minute

// Deployer pushes a zip package to a function app.
type Deployer interface {
	ZipDeploy(ctx context.Context, app *FunctionApp, pkg io.Reader) error
}

// KuduClient deploys through the Kudu zipdeploy API of the app's SCM site.
type KuduClient struct {
	cred azcore.TokenCredential
	http *http.Client
	// scmURL maps an app to its SCM base URL.
	scmURL func(app *FunctionApp) string
}

// KuduOption customizes a KuduClient.
type KuduOption func(*KuduClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) KuduOption {
	return func(k *KuduClient) { k.http = c }
}

// WithSCMBaseURL points every app at one base URL.
func WithSCMBaseURL(base string) KuduOption {
	return func(k *KuduClient) {
		base = strings.TrimRight(base, "/")
		k.scmURL = func(*FunctionApp) string { return base }
	}
}

// NewKuduClient creates a client. A nil credential means DefaultAzureCredential
// scoped to tenantID (empty for the default tenant).
func NewKuduClient(cred azcore.TokenCredential, tenantID string, opts ...KuduOption) (*KuduClient, error) {
	if cred == nil {
		c, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{TenantID: tenantID})
		if err != nil {
			return nil, fmt.Errorf("azure credential: %w", err)
		}
		cred = c
	}
	k := &KuduClient{
		cred:   cred,
		http:   &http.Client{Timeout: DefaultDeployTimeout},
		scmURL: (*FunctionApp).SCMBaseURL,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// ZipDeploy uploads pkg and waits for Kudu to finish the deployment.
func (k *KuduClient) ZipDeploy(ctx context.Context, app *FunctionApp, pkg io.Reader) error {
	token, err := k.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{ManagementScope}})
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	url := k.scmURL(app) + "/api/zipdeploy?isAsync=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pkg)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Set("Content-Type", "application/zip")

	resp, err := k.http.Do(req)
	if err != nil {
		return fmt.Errorf("zip deploy to %s: %w", app.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &DeployFailedError{App: app.Name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
