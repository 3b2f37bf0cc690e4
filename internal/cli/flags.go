package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/monorkin/hyperview-dit/internal/output"
	"github.com/spf13/cobra"
)

var assetTypes = []string{
	"BladeEnclosure",
	"BladeNetwork",
	"BladeServer",
	"BladeStorage",
	"Busway",
	"Camera",
	"Chiller",
	"Crac",
	"Crah",
	"Environmental",
	"FireControlPanel",
	"Generator",
	"InRowCooling",
	"KvmSwitch",
	"Location",
	"Monitor",
	"NetworkDevice",
	"NetworkStorage",
	"NodeServer",
	"PatchPanel",
	"PduAndRpp",
	"PowerMeter",
	"Rack",
	"RackPdu",
	"Server",
	"SmallUps",
	"TransferSwitch",
	"Ups",
	"VirtualServer",
}

var sensorClasses = []string{"numeric", "enum"}

func oneOf(flag string, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("invalid value %q for --%s, expected one of: %s", value, flag, strings.Join(allowed, ", "))
}

// outputFlags are shared by every command that prints records.
type outputFlags struct {
	outputType string
	filename   string
}

func (flags *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.outputType, "output-type", "o", string(output.ModeRecord), "Output type ("+strings.Join(output.Modes, ", ")+")")
	cmd.Flags().StringVarP(&flags.filename, "filename", "f", "", "Output filename, e.g. output.csv")
}

// options validates the flags and the destination file before anything is fetched.
func (flags *outputFlags) options(cmd *cobra.Command) (output.Options, error) {
	if err := oneOf("output-type", flags.outputType, output.Modes); err != nil {
		return output.Options{}, err
	}

	options := output.Options{
		Mode:     output.Mode(flags.outputType),
		Filename: flags.filename,
		Stdout:   cmd.OutOrStdout(),
	}

	return options, options.Validate()
}
