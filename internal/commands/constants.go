package commands

// Common constants used across command implementations
const (
	// Command usage patterns
	OptionsUsage = "[OPTIONS]"

	// ValueTypesUsage lists the property value types accepted on the command line
	ValueTypesUsage = "number, float, string, boolean, long, double"

	// Sample settings document templates
	SampleSettingsJSON = `{
  "settings": [
    {
      "key": "ActivityType",
      "defaultValue": "running",
      "valueType": "string"
    },
    {
      "key": "UseMetricUnits",
      "defaultValue": true,
      "valueType": "boolean"
    },
    {
      "key": "MaxHeartRate",
      "defaultValue": 185,
      "valueType": "number"
    }
  ]
}
`
)
