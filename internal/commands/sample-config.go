package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/constants"
)

// SampleConfigCommand handles the sample-config command functionality
type SampleConfigCommand struct{}

// SampleConfigOptions holds command-line options for the sample-config command
type SampleConfigOptions struct {
	Output string `short:"o" long:"output" description:"Path to write the sample document to"`
	Force  bool   `long:"force"            description:"Overwrite an existing file"`
	Help   bool   `short:"h" long:"help"   description:"Show this help message"`
}

// Help returns the help text for the sample-config command
func (c *SampleConfigCommand) Help() string {
	var opts SampleConfigOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "sample-config",
		Description: "Generate a starter settings JSON document.",
		Examples: []Example{
			{Command: "gset sample-config", Description: "Generate " + constants.SettingsJSONName},
			{Command: "gset sample-config --force", Description: "Overwrite an existing file"},
			{Command: "gset sample-config --output seed.json", Description: "Name the file explicitly"},
		},
		Notes: []string{
			"Edit the generated document, then run 'gset convert' to produce the binary SET file.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the sample-config command
func (c *SampleConfigCommand) Synopsis() string {
	return "Generate a starter settings JSON document"
}

// Run executes the sample-config command
func (c *SampleConfigCommand) Run(args []string) int {
	var opts SampleConfigOptions

	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	_, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				return 0
			}
		}
		fmt.Printf("Error parsing flags: %v\n", err)
		return 1
	}

	outputPath := opts.Output
	if outputPath == "" {
		outputPath = constants.SettingsJSONName
	}

	// Refuse to clobber an existing document unless forced
	outputExists := false
	if _, statErr := os.Stat(outputPath); statErr == nil {
		outputExists = true
		if !opts.Force {
			fmt.Printf("Error: %s already exists. Use --force to overwrite.\n", outputPath)
			return 1
		}
	}

	if err := os.WriteFile(outputPath, []byte(SampleSettingsJSON), 0o600); err != nil {
		fmt.Printf("Error: failed to write sample document: %v\n", err)
		return 1
	}

	if opts.Force && outputExists {
		fmt.Printf("Sample settings written to %s (overwrote existing file)\n", outputPath)
	} else {
		fmt.Printf("Sample settings written to %s\n", outputPath)
	}
	fmt.Println("Edit the document to describe your settings, then run 'gset convert'")
	return 0
}

// SampleConfigCommandFactory creates a new sample-config command instance
func SampleConfigCommandFactory() (cli.Command, error) {
	return &SampleConfigCommand{}, nil
}
