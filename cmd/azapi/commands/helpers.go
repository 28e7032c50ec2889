package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/azw-io/azapi/pkg/azapi"
	"github.com/azw-io/azapi/pkg/azclient"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"

	defaultJSONIndent = "    "

	maxTableColumns = 6
)

// cmdContext is the root context for one command invocation.
func cmdContext() context.Context {
	return context.Background()
}

// CreateClient builds an azapi client from flags, config file, and the ARM_*
// environment variables.
func CreateClient() (azapi.Client, error) {
	config := &azapi.Config{
		Debug:  viper.GetBool("debug"),
		Logger: newLogger(),
		Cache: &azapi.CacheConfig{
			Type:       azapi.CacheType(viper.GetString("cache")),
			FilePath:   viper.GetString("cache-file"),
			NATSURL:    viper.GetString("nats-url"),
			NATSBucket: viper.GetString("nats-bucket"),
		},
	}

	return azclient.New(config)
}

// newLogger builds the CLI logger. Verbose shows request URLs, debug
// additionally shows full request/response traffic.
func newLogger() azapi.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	if viper.GetBool("verbose") || viper.GetBool("debug") {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &logrusAdapter{logger: logger}
}

// logrusAdapter adapts logrus to azapi.Logger.
type logrusAdapter struct {
	logger *logrus.Logger
}

func (l *logrusAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *logrusAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *logrusAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *logrusAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).Error(msg)
}

// OutputResult renders a dispatch result in the configured format and,
// when --out is set, also writes the decoded result to a JSON file.
func OutputResult(result *azapi.Result) error {
	if outFile := viper.GetString("out"); outFile != "" {
		if err := writeResultFile(result, outFile); err != nil {
			return err
		}
	}

	if !result.IsJSON() {
		// Recognized non-JSON outcome, e.g. an empty DELETE response.
		fmt.Printf("HTTP %d (%d bytes, non-JSON body)\n", result.StatusCode, len(result.Raw))

		return nil
	}

	switch outputFormat() {
	case OutputFormatJSON:
		return renderJSON(os.Stdout, decodedResult(result))
	case OutputFormatYAML:
		return yaml.NewEncoder(os.Stdout).Encode(decodedResult(result))
	default:
		return renderTable(result)
	}
}

// outputFormat picks the configured format, defaulting to a table on
// terminals and JSON when output is redirected.
func outputFormat() string {
	format := viper.GetString("output")
	if format != "" {
		return format
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputFormatTable
	}

	return OutputFormatJSON
}

// decodedResult returns the aggregated collection for paged responses or the
// plain decoded body otherwise.
func decodedResult(result *azapi.Result) interface{} {
	var value interface{}

	if result.IsCollection() {
		_ = json.Unmarshal(mustMarshal(result.Values), &value)
	} else {
		_ = json.Unmarshal(result.JSON, &value)
	}

	return value
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("null")
	}

	return data
}

func renderJSON(w *os.File, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", defaultJSONIndent)

	return encoder.Encode(value)
}

// writeResultFile writes the decoded result to a JSON file.
func writeResultFile(result *azapi.Result, path string) error {
	data, err := json.MarshalIndent(decodedResult(result), "", defaultJSONIndent)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// renderTable renders a collection as a table keyed on the scalar fields of
// the first item. Non-collection results fall back to pretty JSON.
func renderTable(result *azapi.Result) error {
	if !result.IsCollection() {
		return renderJSON(os.Stdout, decodedResult(result))
	}

	items := make([]map[string]interface{}, 0, len(result.Values))

	for _, raw := range result.Values {
		var item map[string]interface{}
		if err := json.Unmarshal(raw, &item); err != nil {
			// Mixed or non-object collections are not tabular.
			return renderJSON(os.Stdout, decodedResult(result))
		}

		items = append(items, item)
	}

	columns := tableColumns(items)
	if len(columns) == 0 {
		return renderJSON(os.Stdout, decodedResult(result))
	}

	table := tablewriter.NewWriter(os.Stdout)

	headers := make([]interface{}, len(columns))
	for i, column := range columns {
		headers[i] = column
	}

	table.Header(headers...)

	for _, item := range items {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = formatCell(item[column])
		}

		_ = table.Append(row)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Printf("%d item(s)\n", len(items))

	return nil
}

// tableColumns picks up to maxTableColumns scalar fields, preferring the
// well-known resource identity fields.
func tableColumns(items []map[string]interface{}) []string {
	if len(items) == 0 {
		return nil
	}

	preferred := []string{"name", "displayName", "id", "type", "location", "userPrincipalName"}
	seen := make(map[string]bool)

	var columns []string

	for _, key := range preferred {
		if _, ok := items[0][key]; ok {
			columns = append(columns, key)
			seen[key] = true
		}
	}

	var rest []string

	for key, value := range items[0] {
		if seen[key] {
			continue
		}

		switch value.(type) {
		case string, float64, bool, nil:
			rest = append(rest, key)
		}
	}

	sort.Strings(rest)
	columns = append(columns, rest...)

	if len(columns) > maxTableColumns {
		columns = columns[:maxTableColumns]
	}

	return columns
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return string(mustMarshal(v))
	}
}
