package cli

import (
	"github.com/monorkin/hyperview-dit/hyperview/api"
	"github.com/monorkin/hyperview-dit/internal/output"
	"github.com/spf13/cobra"
)

var (
	sensorTypeFlags     outputFlags
	sensorTypeAssetType string
	sensorTypeClass     string
)

var listSensorTypesCmd = &cobra.Command{
	Use:   "list-sensor-types",
	Short: "List the sensor types available for an asset type",
	Long: `List the sensor types available for an asset type.

The sensorTypeId column is what import files expect in their sensorTypeId column.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := oneOf("asset-type", sensorTypeAssetType, assetTypes); err != nil {
			return err
		}
		if err := oneOf("sensor-class", sensorTypeClass, sensorClasses); err != nil {
			return err
		}

		options, err := sensorTypeFlags.options(cmd)
		if err != nil {
			return err
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		sensorTypes, err := client.ListSensorTypes(cmd.Context(), sensorTypeAssetType, api.SensorClass(sensorTypeClass))
		if err != nil {
			return err
		}

		return output.Render[api.SensorTypeRow](options, sensorTypes)
	},
}

func init() {
	listSensorTypesCmd.Flags().StringVarP(&sensorTypeAssetType, "asset-type", "t", "", "Asset type, e.g. Crah")
	listSensorTypesCmd.Flags().StringVarP(&sensorTypeClass, "sensor-class", "s", string(api.SensorClassNumeric), "Sensor class (numeric, enum)")
	listSensorTypesCmd.MarkFlagRequired("asset-type")
	sensorTypeFlags.register(listSensorTypesCmd)

	rootCmd.AddCommand(listSensorTypesCmd)
}
