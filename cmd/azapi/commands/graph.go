package commands

import (
	"github.com/azw-io/azapi/pkg/azapi"
	"github.com/spf13/cobra"
)

// GraphOptions holds the options for a Graph API call.
type GraphOptions struct {
	Verb         string
	APIVersion   string
	Filter       string
	Body         string
	IgnoreErrors bool
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	var opts GraphOptions

	cmd := &cobra.Command{
		Use:   "graph <resource>",
		Short: "Call the Microsoft Graph API",
		Long: `Issue an authenticated call against the Microsoft Graph API.

The resource is a directory path such as "users" or "groups/{id}/members".
An OData filter is percent-encoded automatically:

  azapi graph users --filter "startswith(displayName,'s')"

Paged responses are accumulated across all pages before rendering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraphCommand(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Verb, "verb", "", "HTTP method (default GET)")
	cmd.Flags().StringVar(&opts.APIVersion, "api-version", "", "Graph API version (default v1.0)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "OData $filter expression")
	cmd.Flags().StringVar(&opts.Body, "body", "", "JSON request body, or @file to read it from a file")
	cmd.Flags().BoolVar(&opts.IgnoreErrors, "ignore-errors", true, "report API errors instead of exiting non-zero")

	return cmd
}

func runGraphCommand(resource string, opts GraphOptions) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	body, err := parseBody(opts.Body)
	if err != nil {
		return err
	}

	result, err := client.Graph().Do(cmdContext(), &azapi.GraphRequest{
		Resource:   resource,
		Verb:       opts.Verb,
		APIVersion: opts.APIVersion,
		Filter:     opts.Filter,
		Body:       body,
	})

	return renderOutcome(result, err, opts.IgnoreErrors)
}
