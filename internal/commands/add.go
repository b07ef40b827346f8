package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/settings"
)

// AddCommand handles the add command functionality
type AddCommand struct{}

// AddOptions holds command-line options for the add command
type AddOptions struct {
	File     string `short:"f" long:"file" description:"Path to the settings file"`
	NoBackup bool   `long:"no-backup"      description:"Skip recording a backup before writing"`
	Help     bool   `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the add command
func (c *AddCommand) Help() string {
	var opts AddOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY TYPE VALUE"

	formatter := &HelpFormatter{
		Command:     "add",
		Description: "Add a new property to a settings file.",
		Examples: []Example{
			{Command: "gset add MaxHeartRate number 185", Description: "Add an integer property"},
			{Command: "gset add DeviceName string Edge540", Description: "Add a string property"},
			{Command: "gset add BacklightTimeout long 15000", Description: "Add a 64-bit integer property"},
		},
		Notes: []string{
			"TYPE is one of: " + ValueTypesUsage + ".",
			"number values accept decimal or 0x-prefixed hexadecimal input.",
			"Adding a key that already exists is an error; use 'gset set' to change it.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the add command
func (c *AddCommand) Synopsis() string {
	return "Add a new property to a settings file"
}

// Run executes the add command
func (c *AddCommand) Run(args []string) int {
	var opts AddOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY TYPE VALUE"

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	if len(remaining) != 3 {
		fmt.Println("Error: expected KEY, TYPE and VALUE arguments")
		return 1
	}
	key, typeName, valueText := remaining[0], remaining[1], remaining[2]

	prop, err := buildProperty(key, typeName, valueText)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

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

	if err := doc.Add(prop); err != nil {
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

	fmt.Printf("Added %s = %s (%s)\n", key, prop.FormatValue(), prop.Type)
	return 0
}

// buildProperty assembles a property from its command-line spelling
func buildProperty(key, typeName, valueText string) (settings.Property, error) {
	typ, err := settings.ParsePropertyType(typeName)
	if err != nil {
		return settings.Property{}, err
	}

	value, err := settings.ParseValue(typ, valueText)
	if err != nil {
		return settings.Property{}, fmt.Errorf("property %q: %w", key, err)
	}

	return settings.NewProperty(key, typ, value)
}

// AddCommandFactory creates a new add command instance
func AddCommandFactory() (cli.Command, error) {
	return &AddCommand{}, nil
}
