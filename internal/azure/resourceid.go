package azure

import (
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// ResourceTypeSites is the ARM type of App Service and Function apps.
const ResourceTypeSites = "Microsoft.Web/sites"

// FunctionApp identifies a deployable function app.
type FunctionApp struct {
	ID             string
	SubscriptionID string
	ResourceGroup  string
	Name           string
	// Endpoint is the app's default https URL, from API_FUNCTION_ENDPOINT.
	Endpoint string
}

// ParseFunctionAppID validates an ARM id of a Microsoft.Web/sites resource.
func ParseFunctionAppID(id string) (*FunctionApp, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &InvalidResourceIDError{ID: id, Reason: "empty"}
	}

	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return nil, &InvalidResourceIDError{ID: id, Reason: err.Error()}
	}
	if !strings.EqualFold(rid.ResourceType.String(), ResourceTypeSites) {
		return nil, &InvalidResourceIDError{ID: id, Reason: "expected a " + ResourceTypeSites + " resource, got " + rid.ResourceType.String()}
	}
	if rid.SubscriptionID == "" || rid.ResourceGroupName == "" || rid.Name == "" {
		return nil, &InvalidResourceIDError{ID: id, Reason: "subscription, resource group and name are required"}
	}

	return &FunctionApp{
		ID:             id,
		SubscriptionID: rid.SubscriptionID,
		ResourceGroup:  rid.ResourceGroupName,
		Name:           rid.Name,
	}, nil
}

// ParseFunctionEndpoint validates the API_FUNCTION_ENDPOINT output and
// returns it without a trailing slash.
func ParseFunctionEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", &InvalidEndpointError{Endpoint: endpoint, Reason: err.Error()}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", &InvalidEndpointError{Endpoint: endpoint, Reason: "expected an http or https URL"}
	}
	if u.Hostname() == "" {
		return "", &InvalidEndpointError{Endpoint: endpoint, Reason: "host is required"}
	}
	return strings.TrimRight(endpoint, "/"), nil
}

// SCMBaseURL returns the Kudu site of the app. The SCM host is the endpoint
// host with "scm" inserted after the app label, e.g.
// https://app.azurewebsites.net -> https://app.scm.azurewebsites.net.
func (a *FunctionApp) SCMBaseURL() string {
	if a.Endpoint != "" {
		if u, err := url.Parse(a.Endpoint); err == nil && u.Hostname() != "" {
			host := u.Hostname()
			if label, rest, ok := strings.Cut(host, "."); ok {
				host = label + ".scm." + rest
			} else {
				host += ".scm"
			}
			if port := u.Port(); port != "" {
				host += ":" + port
			}
			return "https://" + host
		}
	}
	return "https://" + a.Name + ".scm.azurewebsites.net"
}
