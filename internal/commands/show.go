package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/dlclark/regexp2"
	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/cli"

	"github.com/gsettools/gset/pkg/formatting"
	"github.com/gsettools/gset/pkg/settings"
)

// ShowCommand handles the show command functionality
type ShowCommand struct{}

// ShowOptions holds command-line options for the show command
type ShowOptions struct {
	File   string `short:"f" long:"file"   description:"Path to the settings file"`
	Filter string `long:"filter"           description:"Only show properties whose key matches this regular expression"`
	JSON   bool   `long:"json"             description:"Print the document as settings JSON instead of a table"`
	Help   bool   `short:"h" long:"help"   description:"Show this help message"`
}

// Help returns the help text for the show command
func (c *ShowCommand) Help() string {
	var opts ShowOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = OptionsUsage

	formatter := &HelpFormatter{
		Command:     "show",
		Description: "Show all properties stored in a settings file.",
		Examples: []Example{
			{Command: "gset show", Description: "Show properties of GARMIN.SET"},
			{Command: "gset show --file device/GARMIN.SET", Description: "Show a specific file"},
			{Command: "gset show --filter '^Net'", Description: "Show only keys starting with Net"},
			{Command: "gset show --json", Description: "Dump the document as settings JSON"},
		},
		Notes: []string{
			"Reads binary SET files and settings JSON files alike.",
			"The filter expression matches anywhere in the key; anchor with ^ and $ as needed.",
		},
	}

	return formatter.FormatHelp(parser)
}

// Synopsis returns a short description of the show command
func (c *ShowCommand) Synopsis() string {
	return "Show the properties of a settings file"
}

// Run executes the show command
func (c *ShowCommand) Run(args []string) int {
	var opts ShowOptions
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
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Printf("Error: settings file not found: %s\n", path)
		return 1
	}

	doc, _, err := loadSettingsFile(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	props, err := c.filterProperties(doc.Properties(), opts.Filter)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	if opts.JSON {
		return c.printJSON(props)
	}

	if len(props) == 0 {
		fmt.Println("No properties to show.")
		return 0
	}

	fmt.Println(formatting.PropertyTable(props))
	fmt.Printf("%d propert%s.\n", len(props), pluralY(len(props)))
	return 0
}

// filterProperties applies the --filter expression to the property keys
func (c *ShowCommand) filterProperties(props []settings.Property, filter string) ([]settings.Property, error) {
	if filter == "" {
		return props, nil
	}

	re, err := regexp2.Compile(filter, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", filter, err)
	}

	matched := make([]settings.Property, 0, len(props))
	for _, p := range props {
		ok, matchErr := re.MatchString(p.Name.Text())
		if matchErr != nil {
			return nil, fmt.Errorf("filter expression %q: %w", filter, matchErr)
		}
		if ok {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// printJSON dumps the selected properties as a settings JSON document
func (c *ShowCommand) printJSON(props []settings.Property) int {
	doc, err := settings.NewFromProperties(props)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	data, err := doc.EncodeJSON()
	if err != nil {
		fmt.Printf("Error: failed to encode settings JSON: %v\n", err)
		return 1
	}

	fmt.Print(string(data))
	return 0
}

// pluralY returns the right suffix for "property"/"properties"
func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// ShowCommandFactory creates a new show command instance
func ShowCommandFactory() (cli.Command, error) {
	return &ShowCommand{}, nil
}
