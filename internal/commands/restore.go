package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/backup"
	"github.com/gsettools/gset/pkg/formatting"
)

// RestoreCommand handles the restore command functionality
type RestoreCommand struct{}

// RestoreOptions holds command-line options for the restore command
type RestoreOptions struct {
	File string `short:"f" long:"file" description:"Path to the settings file"`
	List bool   `short:"l" long:"list" description:"List recorded backups instead of restoring"`
	Help bool   `short:"h" long:"help" description:"Show this help message"`
}

// Help returns the help text for the restore command
func (c *RestoreCommand) Help() string {
	var opts RestoreOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "restore",
		Description: "Restore a settings file from its most recent backup.",
		Examples: []Example{
			{Command: "gset restore", Description: "Restore the configured settings file"},
			{Command: "gset restore --list", Description: "Show recorded backups"},
			{Command: "gset restore --file device/GARMIN.SET", Description: "Restore a specific file"},
		},
		Notes: []string{
			"Backups are recorded automatically by 'gset set', 'gset add' and 'gset remove'.",
			"Restoring works even when the settings file itself has been deleted.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the restore command
func (c *RestoreCommand) Synopsis() string {
	return "Restore a settings file from backup"
}

// Run executes the restore command
func (c *RestoreCommand) Run(args []string) int {
	var opts RestoreOptions
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

	path := resolveSettingsPath(opts.File)

	mgr, err := backup.Open()
	if err != nil {
		fmt.Printf("Error: failed to open backup registry: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close backup registry: %v\n", closeErr)
		}
	}()

	if opts.List {
		return c.listBackups(mgr, path)
	}
	return c.restoreLatest(mgr, path)
}

// listBackups prints the recorded backups for path, newest first
func (c *RestoreCommand) listBackups(mgr *backup.Manager, path string) int {
	entries, err := mgr.List(path)
	if err != nil {
		fmt.Printf("Error: failed to list backups: %v\n", err)
		return 1
	}

	if len(entries) == 0 {
		fmt.Printf("No backups recorded for %s.\n", path)
		return 0
	}

	fmt.Println(formatting.BackupTable(entries))
	fmt.Printf("%d backup(s) recorded for %s.\n", len(entries), path)
	return 0
}

// restoreLatest writes the newest backup payload back over path
func (c *RestoreCommand) restoreLatest(mgr *backup.Manager, path string) int {
	entry, err := mgr.Restore(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	fmt.Printf("Restored %s from backup taken %s\n", path, entry.Created.Format(time.DateTime))
	return 0
}

// RestoreCommandFactory creates a new restore command instance
func RestoreCommandFactory() (cli.Command, error) {
	return &RestoreCommand{}, nil
}
