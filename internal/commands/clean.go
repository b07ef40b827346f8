package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/backup"
)

// CleanCommand handles the clean command functionality
type CleanCommand struct{}

// CleanOptions holds command-line options for the clean command
type CleanOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Verbose output showing what is being cleaned"`
	Help    bool `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the clean command
func (c *CleanCommand) Help() string {
	var opts CleanOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "clean",
		Description: "Remove all recorded backups and empty the backup registry.",
		Examples: []Example{
			{Command: "gset clean", Description: "Remove all backup data"},
			{Command: "gset clean --verbose", Description: "Show detailed output"},
		},
		Notes: []string{
			"Removes every backup payload under the cache directory and empties the registry database.",
			"Use 'gset gc' for a conservative sweep that keeps recent backups.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the clean command
func (c *CleanCommand) Synopsis() string {
	return "Remove all recorded backups"
}

// Run executes the clean command
func (c *CleanCommand) Run(args []string) int {
	var opts CleanOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	_, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		fmt.Printf("Error parsing arguments: %v\n", err)
		return 1
	}

	cacheDir, err := backup.CacheDir()
	if err != nil {
		fmt.Printf("Error: failed to resolve cache directory: %v\n", err)
		return 1
	}

	if _, statErr := os.Stat(cacheDir); os.IsNotExist(statErr) {
		if opts.Verbose {
			fmt.Println("No cache directory found to clean.")
		}
		return 0
	}

	mgr, err := backup.NewManager(cacheDir)
	if err != nil {
		fmt.Printf("Error: failed to open backup registry: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close backup registry: %v\n", closeErr)
		}
	}()

	if opts.Verbose {
		fmt.Printf("Cleaning cache directory: %s\n", cacheDir)
	}

	if err := mgr.Clean(); err != nil {
		fmt.Printf("Error: failed to clean cache directory: %v\n", err)
		return 1
	}

	fmt.Printf("Cleaned %s.\n", cacheDir)
	return 0
}

// CleanCommandFactory creates a new clean command instance
func CleanCommandFactory() (cli.Command, error) {
	return &CleanCommand{}, nil
}
