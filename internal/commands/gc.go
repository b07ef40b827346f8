package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/backup"
	"github.com/gsettools/gset/pkg/config"
	"github.com/gsettools/gset/pkg/constants"
)

// GcCommand handles the garbage collection command functionality
type GcCommand struct{}

// GcOptions holds command-line options for the gc command
type GcOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Verbose output showing what is being cleaned"`
	Help    bool `short:"h" long:"help"    description:"Show this help message"`
}

// Help returns the help text for the gc command
func (c *GcCommand) Help() string {
	var opts GcOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "gc",
		Description: "Clean stale backups from the registry.",
		Examples: []Example{
			{
				Command:     "gset gc",
				Description: "Remove backups of deleted files and prune old ones",
			},
			{Command: "gset gc --verbose", Description: "Show detailed output"},
		},
		Notes: []string{
			"Backups whose settings file no longer exists are removed, and each",
			"remaining file keeps only its most recent backups. The retention",
			"count comes from the backups setting in .gset.yaml.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the gc command
func (c *GcCommand) Synopsis() string {
	return "Clean stale backups"
}

// Run executes the gc command
func (c *GcCommand) Run(args []string) int {
	var opts GcOptions
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
	dbPath := filepath.Join(cacheDir, constants.DBFileName)

	if opts.Verbose {
		fmt.Printf("Garbage collecting cache directory: %s\n", cacheDir)
	}

	// Nothing recorded yet means nothing to collect
	if _, statErr := os.Stat(dbPath); os.IsNotExist(statErr) {
		if opts.Verbose {
			fmt.Printf("Registry database does not exist: %s\n", dbPath)
		}
		fmt.Printf("0 backup(s) removed.\n")
		return 0
	}

	retain := c.retentionCount(opts.Verbose)

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

	removed, err := mgr.GC(retain)
	if err != nil {
		fmt.Printf("Error during garbage collection: %v\n", err)
		return 1
	}

	fmt.Printf("%d backup(s) removed.\n", removed)
	return 0
}

// retentionCount reads how many backups per settings file survive a sweep
func (c *GcCommand) retentionCount(verbose bool) int {
	cfg, err := config.LoadOrDefault("")
	if err != nil {
		fmt.Printf("⚠️  Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if verbose {
		fmt.Printf("Keeping the %d most recent backup(s) per settings file\n", cfg.Backups)
	}
	return cfg.Backups
}

// GcCommandFactory creates a new gc command instance
func GcCommandFactory() (cli.Command, error) {
	return &GcCommand{}, nil
}
