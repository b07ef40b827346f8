package commands

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"
)

// HelpCommand handles the help command functionality
type HelpCommand struct {
	UI cli.Ui // User interface for command output
}

// HelpOptions holds command-line options for the help command
type HelpOptions struct {
	Help bool `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the help command
func (c *HelpCommand) Help() string {
	helpText := `
Show help for a specific command.

Usage: gset help [COMMAND]

If COMMAND is specified, shows detailed help for that command.
If no command is specified, shows general help.

Available commands:
  add             Add a new property to a settings file
  clean           Remove all recorded backups
  convert         Convert between binary SET and settings JSON
  gc              Clean stale backups
  get             Print the value of one property
  remove          Remove a property from a settings file
  restore         Restore a settings file from backup
  sample-config   Generate a starter settings JSON document
  set             Change the value of an existing property
  show            Show the properties of a settings file
  validate        Validate settings files

`
	return helpText
}

// Synopsis returns a short description of the help command
func (c *HelpCommand) Synopsis() string {
	return "Show help for a specific command"
}

// Run executes the help command
func (c *HelpCommand) Run(args []string) int {
	var opts HelpOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[COMMAND]"

	remaining, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	if len(remaining) == 0 {
		// Show general help
		fmt.Print(c.Help())
		return 0
	}

	command := remaining[0]

	// Map of command descriptions
	commandHelp := map[string]string{
		"show":          "Print the properties of a settings file as a table, optionally filtered by key.",
		"get":           "Print the value of a single property; exits non-zero when the key is absent.",
		"set":           "Change the value of an existing property, keeping its stored type.",
		"add":           "Add a new property with an explicit type (" + ValueTypesUsage + ").",
		"remove":        "Remove a property and any string-table entries only it referenced.",
		"convert":       "Convert between the binary SET format and the settings JSON interchange form.",
		"validate":      "Check that settings files parse cleanly in either representation.",
		"sample-config": "Generate a starter settings JSON document to edit and convert.",
		"restore":       "Restore a settings file from its most recent recorded backup.",
		"clean":         "Remove every recorded backup and empty the registry database.",
		"gc":            "Remove backups of deleted settings files and prune old backups.",
		"help":          "Show help information for commands.",
	}

	if help, exists := commandHelp[command]; exists {
		fmt.Printf("Command: %s\n\n", command)
		fmt.Printf("Description: %s\n\n", help)
		fmt.Printf("For detailed usage information, run:\n")
		fmt.Printf("  gset %s --help\n", command)
	} else {
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Println("Available commands:")
		for cmd := range commandHelp {
			fmt.Printf("  %s\n", cmd)
		}
		return 1
	}

	return 0
}

// HelpCommandFactory creates a new help command instance
func HelpCommandFactory() (cli.Command, error) {
	return &HelpCommand{}, nil
}
