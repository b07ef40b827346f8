package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/formatting"
	"github.com/gsettools/gset/pkg/settings"
)

// ValidateCommand handles the validate command functionality
type ValidateCommand struct{}

// ValidateOptions holds command-line options for the validate command
type ValidateOptions struct {
	Color   string `long:"color"   description:"Whether to use color in output" choice:"auto" choice:"always" choice:"never" default:"auto"`
	Verbose bool   `long:"verbose" description:"Show details for valid files"                                                               short:"v"`
	Help    bool   `long:"help"    description:"Show this help message"                                                                     short:"h"`
}

// Help returns the help text for the validate command
func (c *ValidateCommand) Help() string {
	var opts ValidateOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [FILE...]"

	formatter := &HelpFormatter{
		Command:     "validate",
		Description: "Check that settings files parse cleanly.",
		Examples: []Example{
			{Command: "gset validate", Description: "Validate the configured settings file"},
			{Command: "gset validate GARMIN.SET Garmin-settings.json", Description: "Validate several files"},
			{Command: "gset validate --verbose device/GARMIN.SET", Description: "Show property counts"},
		},
		Notes: []string{
			"Binary SET files and settings JSON files are both accepted.",
			"Returns exit code 0 when every file is valid, 1 otherwise.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the validate command
func (c *ValidateCommand) Synopsis() string {
	return "Validate settings files"
}

// Run executes the validate command
func (c *ValidateCommand) Run(args []string) int {
	var opts ValidateOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [FILE...]"

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	files := remaining
	if len(files) == 0 {
		files = []string{resolveSettingsPath("")}
	}

	output := formatting.NewFormatter(opts.Color, opts.Verbose)

	invalid := 0
	for _, path := range files {
		doc, binary, validateErr := c.validateFile(path)
		output.PrintValidation(path, validateErr)
		if validateErr != nil {
			invalid++
			continue
		}
		output.PrintVerboseDetail("%d properties (%s)", doc.Len(), representation(binary))
	}

	if invalid > 0 {
		return 1
	}
	return 0
}

// validateFile parses one settings file in either representation
func (c *ValidateCommand) validateFile(path string) (*settings.Settings, bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied settings path
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings file: %w", err)
	}

	binary := settings.IsBinary(data)
	doc, err := settings.Load(data)
	if err != nil {
		return nil, binary, err
	}
	return doc, binary, nil
}

// representation names the on-disk form of a settings document
func representation(binary bool) string {
	if binary {
		return "binary SET"
	}
	return "settings JSON"
}

// ValidateCommandFactory creates a new validate command instance
func ValidateCommandFactory() (cli.Command, error) {
	return &ValidateCommand{}, nil
}
