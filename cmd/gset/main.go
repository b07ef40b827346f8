// Package main provides the gset command-line tool.
// This is a Go implementation of the Garmin SET settings-file toolkit.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/internal/commands"
)

// Version information set by GoReleaser
var (
	version = "dev"
	commit  = "none"    //nolint:unused // Set by GoReleaser
	date    = "unknown" //nolint:unused // Set by GoReleaser
	builtBy = "unknown" //nolint:unused // Set by GoReleaser
)

func main() {
	c := cli.NewCLI("gset", version)
	c.Args = os.Args[1:]
	c.HelpFunc = customHelpFunc
	c.Commands = map[string]cli.CommandFactory{
		"add":           commands.AddCommandFactory,
		"clean":         commands.CleanCommandFactory,
		"convert":       commands.ConvertCommandFactory,
		"gc":            commands.GcCommandFactory,
		"get":           commands.GetCommandFactory,
		"remove":        commands.RemoveCommandFactory,
		"restore":       commands.RestoreCommandFactory,
		"sample-config": commands.SampleConfigCommandFactory,
		"set":           commands.SetCommandFactory,
		"show":          commands.ShowCommandFactory,
		"validate":      commands.ValidateCommandFactory,
		"help":          commands.HelpCommandFactory,
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitStatus)
}

// customHelpFunc provides the top-level usage output
func customHelpFunc(cmdFactories map[string]cli.CommandFactory) string {
	// Build the command list in alphabetical order
	var commandNames []string
	for name := range cmdFactories {
		// Skip the help command from the main listing
		if name != "help" {
			commandNames = append(commandNames, name)
		}
	}

	// Sort commands alphabetically
	sort.Strings(commandNames)

	// Build the usage line with all commands
	usageLine := "usage: gset [-h] [--version]\n"
	usageLine += "            {"
	usageLine += strings.Join(commandNames, ",")
	usageLine += "}\n            ...\n"

	helpText := usageLine + `
A toolkit for reading and writing Garmin SET settings files.

positional arguments:
  {` + strings.Join(commandNames, ",") + `}
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

optional arguments:
  -h, --help            show this help message and exit
  --version             show program's version number and exit
`

	return helpText
}
