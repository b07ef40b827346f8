package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"
)

// RemoveCommand handles the remove command functionality
type RemoveCommand struct{}

// RemoveOptions holds command-line options for the remove command
type RemoveOptions struct {
	File     string `short:"f" long:"file" description:"Path to the settings file"`
	NoBackup bool   `long:"no-backup"      description:"Skip recording a backup before writing"`
	Help     bool   `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the remove command
func (c *RemoveCommand) Help() string {
	var opts RemoveOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] KEY"

	formatter := &HelpFormatter{
		Command:     "remove",
		Description: "Remove a property from a settings file.",
		Examples: []Example{
			{Command: "gset remove ObsoleteSetting", Description: "Delete one property"},
			{Command: "gset remove --file old/GARMIN.SET DeviceName", Description: "Delete from a specific file"},
		},
		Notes: []string{
			"String-table entries no longer referenced by any property are dropped as well.",
			"A backup of the file is recorded before it is rewritten; see 'gset restore'.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the remove command
func (c *RemoveCommand) Synopsis() string {
	return "Remove a property from a settings file"
}

// Run executes the remove command
func (c *RemoveCommand) Run(args []string) int {
	var opts RemoveOptions
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

	doc, binary, err := loadSettingsFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if err := doc.Remove(key); err != nil {
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

	fmt.Printf("Removed %s\n", key)
	return 0
}

// RemoveCommandFactory creates a new remove command instance
func RemoveCommandFactory() (cli.Command, error) {
	return &RemoveCommand{}, nil
}
