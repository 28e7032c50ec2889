package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/azw-io/azapi/pkg/azapi"
	"github.com/spf13/cobra"
)

// RestOptions holds the options for a management API call.
type RestOptions struct {
	APIVersion   string
	Scope        string
	Verb         string
	URL          string
	Body         string
	IgnoreErrors bool
}

// NewRestCommand creates the rest command.
func NewRestCommand() *cobra.Command {
	var opts RestOptions

	cmd := &cobra.Command{
		Use:   "rest [resource]",
		Short: "Call the Azure Resource Manager API",
		Long: `Issue an authenticated call against the Azure Resource Manager API.

The request URL is built from the resource provider path, the optional
management scope, and the API version:

  azapi rest Microsoft.Network/virtualNetworks \
      --scope /subscriptions/$SUB --api-version 2022-07-01

Paged responses are accumulated across all pages before rendering. With
--ignore-errors (the default), a structured API error is printed and the
error body rendered instead of aborting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := ""
			if len(args) > 0 {
				resource = args[0]
			}

			return runRestCommand(resource, opts)
		},
	}

	cmd.Flags().StringVar(&opts.APIVersion, "api-version", "", "management API version, e.g. 2022-07-01")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "management scope, e.g. /subscriptions/{id}/resourceGroups/{name}")
	cmd.Flags().StringVar(&opts.Verb, "verb", "", "HTTP method (default GET)")
	cmd.Flags().StringVar(&opts.URL, "url", "", "full request URL instead of scope and resource")
	cmd.Flags().StringVar(&opts.Body, "body", "", "JSON request body, or @file to read it from a file")
	cmd.Flags().BoolVar(&opts.IgnoreErrors, "ignore-errors", true, "report API errors instead of exiting non-zero")

	return cmd
}

func runRestCommand(resource string, opts RestOptions) error {
	client, err := CreateClient()
	if err != nil {
		return err
	}

	body, err := parseBody(opts.Body)
	if err != nil {
		return err
	}

	result, err := client.REST().Do(cmdContext(), &azapi.RESTRequest{
		APIVersion: opts.APIVersion,
		Resource:   resource,
		Scope:      opts.Scope,
		Verb:       opts.Verb,
		URL:        opts.URL,
		Body:       body,
	})

	return renderOutcome(result, err, opts.IgnoreErrors)
}

// renderOutcome applies the error suppression contract shared by both
// dispatchers: an API error with suppression on is reported and its decoded
// body rendered; anything else fatal bubbles up to a non-zero exit.
func renderOutcome(result *azapi.Result, err error, ignoreErrors bool) error {
	if err != nil {
		apiErr := &azapi.APIError{}
		if errors.As(err, &apiErr) && ignoreErrors && result != nil {
			fmt.Fprintf(os.Stderr, "Error: %s %s\n", apiErr.Code, apiErr.Message)

			return OutputResult(result)
		}

		return err
	}

	return OutputResult(result)
}

// parseBody decodes an inline JSON body or, with a leading @, reads it from
// a file.
func parseBody(body string) (interface{}, error) {
	if body == "" {
		return nil, nil
	}

	data := []byte(body)

	if strings.HasPrefix(body, "@") {
		var err error

		data, err = os.ReadFile(strings.TrimPrefix(body, "@"))
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
	}

	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("request body is not valid JSON: %w", err)
	}

	return decoded, nil
}
