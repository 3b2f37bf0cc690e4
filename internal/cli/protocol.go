package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/monorkin/hyperview-dit/hyperview/api"
	"github.com/monorkin/hyperview-dit/internal/globals"
	"github.com/monorkin/hyperview-dit/internal/output"
	"github.com/spf13/cobra"
)

// newProtocolCmd builds the command group for one device protocol.
func newProtocolCmd(protocol api.Protocol, label string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(protocol),
		Short: "Manage " + label + " definitions and sensors",
	}

	cmd.AddCommand(
		newListDefinitionsCmd(protocol, label),
		newAddDefinitionCmd(protocol, label),
		newListSensorsCmd(protocol, api.DataTypeNumeric),
		newListSensorsCmd(protocol, api.DataTypeNonNumeric),
		newImportSensorsCmd(protocol, api.DataTypeNumeric),
		newImportSensorsCmd(protocol, api.DataTypeNonNumeric),
	)

	return cmd
}

func newListDefinitionsCmd(protocol api.Protocol, label string) *cobra.Command {
	var flags outputFlags

	cmd := &cobra.Command{
		Use:     "list-definitions",
		Aliases: []string{"definitions"},
		Short:   "List current " + label + " definitions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := flags.options(cmd)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			definitions, err := client.ListDefinitions(cmd.Context(), protocol)
			if err != nil {
				return err
			}

			return output.Render[api.DefinitionRow](options, definitions)
		},
	}

	flags.register(cmd)

	return cmd
}

func newAddDefinitionCmd(protocol api.Protocol, label string) *cobra.Command {
	var name, assetType string

	cmd := &cobra.Command{
		Use:   "add-definition",
		Short: "Add a new " + label + " definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneOf("asset-type", assetType, assetTypes); err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			response, err := client.AddDefinition(cmd.Context(), protocol, name, assetType)
			if err != nil {
				return err
			}

			body, err := json.MarshalIndent(response.Body, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format response: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "server response (%s): %s\n", response.Status, body)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Definition name")
	cmd.Flags().StringVarP(&assetType, "asset-type", "t", "", "Asset type, e.g. Crah")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("asset-type")

	return cmd
}

func newListSensorsCmd(protocol api.Protocol, dataType api.DataType) *cobra.Command {
	var flags outputFlags
	var definitionID string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("list-%s-sensors", dataType),
		Short: fmt.Sprintf("Get the existing %s sensors of a definition", dataType),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := flags.options(cmd)
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			collection := api.SensorCollection{Protocol: protocol, DataType: dataType, DefinitionID: definitionID}

			return renderSensors(cmd.Context(), client, collection, options)
		},
	}

	cmd.Flags().StringVarP(&definitionID, "definition-id", "d", "", "Definition id")
	cmd.MarkFlagRequired("definition-id")
	flags.register(cmd)

	return cmd
}

func renderSensors(ctx context.Context, client *api.Client, collection api.SensorCollection, options output.Options) error {
	switch {
	case collection.Protocol == api.ProtocolBacnet && collection.DataType == api.DataTypeNumeric:
		sensors, err := client.ListBacnetNumericSensors(ctx, collection.DefinitionID)
		if err != nil {
			return err
		}
		return output.Render[api.BacnetNumericSensorRow](options, sensors)

	case collection.Protocol == api.ProtocolBacnet && collection.DataType == api.DataTypeNonNumeric:
		sensors, err := client.ListBacnetNonNumericSensors(ctx, collection.DefinitionID)
		if err != nil {
			return err
		}
		return output.Render[api.BacnetNonNumericSensorRow](options, sensors)

	case collection.Protocol == api.ProtocolModbus && collection.DataType == api.DataTypeNumeric:
		sensors, err := client.ListModbusNumericSensors(ctx, collection.DefinitionID)
		if err != nil {
			return err
		}
		return output.Render[api.ModbusNumericSensorRow](options, sensors)

	case collection.Protocol == api.ProtocolModbus && collection.DataType == api.DataTypeNonNumeric:
		sensors, err := client.ListModbusNonNumericSensors(ctx, collection.DefinitionID)
		if err != nil {
			return err
		}
		return output.Render[api.ModbusNonNumericSensorRow](options, sensors)
	}

	return fmt.Errorf("unsupported sensor collection: %s %s", collection.Protocol, collection.DataType)
}

func newImportSensorsCmd(protocol api.Protocol, dataType api.DataType) *cobra.Command {
	var filename, definitionID string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("import-%s-sensors", dataType),
		Short: fmt.Sprintf("Add or update %s sensors of a definition from a CSV file", dataType),
		Long: fmt.Sprintf(`Add or update %s sensors of a definition from a CSV file.

Rows with a valid sensor id update that sensor. Rows with an empty id and a
name create a new sensor. Any other row is skipped.`, dataType),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := loadImportRows(protocol, dataType, filename)
			if err != nil {
				return err
			}

			globals.Logger.Info("Uploading sensors", "file", filename, "definition_id", definitionID, "rows", len(rows))

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			collection := api.SensorCollection{Protocol: protocol, DataType: dataType, DefinitionID: definitionID}
			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

			summary, err := client.ImportSensors(cmd.Context(), collection, rows, func(result api.ImportResult) {
				printImportResult(stdout, stderr, result)
			})
			fmt.Fprintf(stdout, "created: %d, updated: %d, rejected: %d, failed: %d\n",
				summary.Created, summary.Updated, summary.Rejected, summary.Failed)

			return err
		},
	}

	cmd.Flags().StringVarP(&filename, "filename", "f", "", "CSV file name")
	cmd.Flags().StringVarP(&definitionID, "definition-id", "d", "", "Definition id")
	cmd.MarkFlagRequired("filename")
	cmd.MarkFlagRequired("definition-id")

	return cmd
}

func loadImportRows(protocol api.Protocol, dataType api.DataType, filename string) ([]api.ImportRow, error) {
	switch {
	case protocol == api.ProtocolBacnet && dataType == api.DataTypeNumeric:
		return api.LoadImportFile[api.BacnetNumericSensorRow](filename)
	case protocol == api.ProtocolBacnet && dataType == api.DataTypeNonNumeric:
		return api.LoadImportFile[api.BacnetNonNumericSensorRow](filename)
	case protocol == api.ProtocolModbus && dataType == api.DataTypeNumeric:
		return api.LoadImportFile[api.ModbusNumericSensorRow](filename)
	case protocol == api.ProtocolModbus && dataType == api.DataTypeNonNumeric:
		return api.LoadImportFile[api.ModbusNonNumericSensorRow](filename)
	}

	return nil, fmt.Errorf("unsupported sensor collection: %s %s", protocol, dataType)
}

func printImportResult(stdout io.Writer, stderr io.Writer, result api.ImportResult) {
	switch result.Decision.Action {
	case api.ActionReject:
		fmt.Fprintf(stderr, "Skipping row %d: %v\n", result.Row, result.Decision.Err)
		return
	case api.ActionUpdate:
		fmt.Fprintf(stdout, "Updating sensor with id: %s and name: %s\n", result.Decision.ID, result.Name)
	default:
		fmt.Fprintf(stdout, "Adding new sensor: %s\n", result.Name)
	}

	if result.Response.Body != "" && !result.Response.Success() {
		fmt.Fprintf(stdout, "server response: %s: %s\n", result.Response.Status, result.Response.Body)
		return
	}

	fmt.Fprintf(stdout, "server response: %s\n", result.Response.Status)
}
