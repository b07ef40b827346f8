package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"
)

// GetCommand handles the get command functionality
type GetCommand struct{}

// GetOptions holds command-line options for the get command
type GetOptions struct {
	File string `short:"f" long:"file" description:"Path to the settings file"`
	Type bool   `short:"t" long:"type" description:"Print the property type alongside the value"`
	Help bool   `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the get command
func (c *GetCommand) Help() string {
	var opts GetOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY"

	formatter := &HelpFormatter{
		Command:     "get",
		Description: "Print the value of a single property.",
		Examples: []Example{
			{Command: "gset get UseMilitaryFormat", Description: "Print one value"},
			{Command: "gset get --type NetworkUrl1", Description: "Print the value with its type"},
		},
		Notes: []string{
			"Exits with status 1 when the key is not present in the file.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the get command
func (c *GetCommand) Synopsis() string {
	return "Print the value of one property"
}

// Run executes the get command
func (c *GetCommand) Run(args []string) int {
	var opts GetOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY"

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	if len(remaining) != 1 {
		fmt.Println("Error: expected exactly one KEY argument")
		return 1
	}
	key := remaining[0]

	path := resolveSettingsPath(opts.File)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Printf("Error: settings file not found: %s\n", path)
		return 1
	}

	doc, _, err := loadSettingsFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	prop, err := doc.Get(key)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if opts.Type {
		fmt.Printf("%s (%s)\n", prop.FormatValue(), prop.Type)
	} else {
		fmt.Println(prop.FormatValue())
	}
	return 0
}

// GetCommandFactory creates a new get command instance
func GetCommandFactory() (cli.Command, error) {
	return &GetCommand{}, nil
}
