// Package azapi defines the public types for the Azure management and
// Microsoft Graph API client: configuration, request and result types,
// typed errors, and the Client interface.
//
// Construct clients with the azclient package:
//
//	client, err := azclient.New(&azapi.Config{
//		ClientID:     os.Getenv("ARM_CLIENT_ID"),
//		ClientSecret: os.Getenv("ARM_CLIENT_SECRET"),
//		TenantID:     os.Getenv("ARM_TENANT_ID"),
//	})
//
// Requests against the two APIs go through the REST and Graph dispatchers:
//
//	result, err := client.REST().Do(ctx, &azapi.RESTRequest{
//		APIVersion: "2022-07-01",
//		Resource:   "Microsoft.Network/virtualNetworks",
//		Scope:      "/subscriptions/" + subscriptionID,
//	})
//
// Paged collections (a top-level "value" array with a continuation link) are
// accumulated across all pages before the result is returned.
package azapi
