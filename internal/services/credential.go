package services

import (
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Well-known Azurite development account.
const (
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// isLocalEndpoint reports whether the service URL points at a local
// emulator (plain http) rather than a real Azure endpoint.
func isLocalEndpoint(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

// defaultCredential resolves the production credential chain
// (managed identity, environment, CLI).
func defaultCredential() (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}
