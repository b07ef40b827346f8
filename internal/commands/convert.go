package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/config"
	"github.com/gsettools/gset/pkg/settings"
)

// ConvertCommand handles the convert command functionality
type ConvertCommand struct{}

// ConvertOptions holds command-line options for the convert command
type ConvertOptions struct {
	Output string `short:"o" long:"output" description:"Path to write the converted file to"`
	Help   bool   `short:"h" long:"help"   description:"Show this help message"`
}

// Help returns the help text for the convert command
func (c *ConvertCommand) Help() string {
	var opts ConvertOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [FILE]"

	formatter := &HelpFormatter{
		Command:     "convert",
		Description: "Convert a settings file between its binary SET and JSON representations.",
		Examples: []Example{
			{Command: "gset convert GARMIN.SET", Description: "Produce Garmin-settings.json"},
			{Command: "gset convert Garmin-settings.json", Description: "Produce GARMIN.SET"},
			{Command: "gset convert GARMIN.SET --output backup.json", Description: "Name the result explicitly"},
		},
		Notes: []string{
			"The direction is inferred from the input: binary SET files convert to JSON, JSON files to binary.",
			"Without --output the result is named after the configured settings_file or json_file.",
			"The output file is overwritten if it already exists.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the convert command
func (c *ConvertCommand) Synopsis() string {
	return "Convert between binary SET and settings JSON"
}

// Run executes the convert command
func (c *ConvertCommand) Run(args []string) int {
	var opts ConvertOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [FILE]"

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	var input string
	switch len(remaining) {
	case 0:
		input = resolveSettingsPath("")
	case 1:
		input = remaining[0]
	default:
		fmt.Println("Error: expected at most one FILE argument")
		return 1
	}

	if _, statErr := os.Stat(input); os.IsNotExist(statErr) {
		fmt.Printf("Error: settings file not found: %s\n", input)
		return 1
	}

	doc, binary, err := loadSettingsFile(input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	output := opts.Output
	if output == "" {
		output = c.defaultOutput(binary)
	}

	if err := c.convertDocument(doc, output, binary); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	c.printConversionSuccess(input, output, binary)
	return 0
}

// defaultOutput names the result after the configured counterpart of the
// input representation.
func (c *ConvertCommand) defaultOutput(fromBinary bool) string {
	cfg, err := config.LoadOrDefault("")
	if err != nil {
		fmt.Printf("⚠️  Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if fromBinary {
		return cfg.JSONFile
	}
	return cfg.SettingsFile
}

// convertDocument writes doc in the representation opposite to the input
func (c *ConvertCommand) convertDocument(doc *settings.Settings, output string, fromBinary bool) error {
	// Flipping the flag is the whole conversion
	return writeSettingsFile(doc, output, !fromBinary)
}

// printConversionSuccess reports what was produced where
func (c *ConvertCommand) printConversionSuccess(input, output string, fromBinary bool) {
	if fromBinary {
		fmt.Printf("Converted binary SET file %s to settings JSON %s\n", input, output)
	} else {
		fmt.Printf("Converted settings JSON %s to binary SET file %s\n", input, output)
	}
}

// ConvertCommandFactory creates a new convert command instance
func ConvertCommandFactory() (cli.Command, error) {
	return &ConvertCommand{}, nil
}
