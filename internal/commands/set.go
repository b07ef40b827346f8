package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/settings"
)

// SetCommand handles the set command functionality
type SetCommand struct{}

// SetOptions holds command-line options for the set command
type SetOptions struct {
	File     string `short:"f" long:"file" description:"Path to the settings file"`
	NoBackup bool   `long:"no-backup"      description:"Skip recording a backup before writing"`
	Help     bool   `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the set command
func (c *SetCommand) Help() string {
	var opts SetOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY VALUE"

	formatter := &HelpFormatter{
		Command:     "set",
		Description: "Change the value of an existing property.",
		Examples: []Example{
			{Command: "gset set UseMilitaryFormat false", Description: "Change a boolean property"},
			{Command: "gset set NetworkUrl1 https://example.com", Description: "Change a string property"},
		},
		Notes: []string{
			"The value is parsed according to the type already stored for KEY.",
			"A backup of the file is recorded before it is rewritten; see 'gset restore'.",
			"Use 'gset add' to create a property that does not exist yet.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the set command
func (c *SetCommand) Synopsis() string {
	return "Change the value of an existing property"
}

// Run executes the set command
func (c *SetCommand) Run(args []string) int {
	var opts SetOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY VALUE"

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	if len(remaining) != 2 {
		fmt.Println("Error: expected KEY and VALUE arguments")
		return 1
	}
	key, valueText := remaining[0], remaining[1]

	path := resolveSettingsPath(opts.File)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Printf("Error: settings file not found: %s\n", path)
		return 1
	}

	doc, binary, err := loadSettingsFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	prop, err := c.applyEdit(doc, key, valueText)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if !opts.NoBackup {
		backupSettingsFile(path)
	}

	if err := writeSettingsFile(doc, path, binary); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	fmt.Printf("Set %s = %s (%s)\n", key, prop.FormatValue(), prop.Type)
	return 0
}

// applyEdit parses valueText against the stored type of key and updates
// the document in place.
func (c *SetCommand) applyEdit(doc *settings.Settings, key, valueText string) (settings.Property, error) {
	prop, err := doc.Get(key)
	if err != nil {
		return settings.Property{}, err
	}

	value, err := settings.ParseValue(prop.Type, valueText)
	if err != nil {
		return settings.Property{}, fmt.Errorf("property %q: %w", key, err)
	}

	if err := doc.Edit(key, value); err != nil {
		return settings.Property{}, err
	}
	return doc.Get(key)
}

// SetCommandFactory creates a new set command instance
func SetCommandFactory() (cli.Command, error) {
	return &SetCommand{}, nil
}
