package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/sagan/sdmeta/cmd"
	"github.com/sagan/sdmeta/features/aimeta"
	"github.com/sagan/sdmeta/util"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: `Output the json schema of "extract" command output`,
	Long: `Output the json schema of "extract" command output (a single file result).

Example:
  sdmeta schema -o sdmeta.schema.json`,
	RunE: doSchema,
	Args: cobra.NoArgs,
}

var (
	flagForce  bool
	flagOutput string
)

func doSchema(cmd *cobra.Command, args []string) (err error) {
	if flagOutput != "-" {
		if exists, err := util.FileExists(flagOutput); err != nil || (exists && !flagForce) {
			return fmt.Errorf("output file %q exists or can't access, err=%w", flagOutput, err)
		}
	}
	data, err := json.MarshalIndent(Reflect(), "", "  ")
	if err != nil {
		return err
	}
	output := string(data) + "\n"
	if flagOutput == "-" {
		_, err = cmd.OutOrStdout().Write([]byte(output))
	} else {
		err = atomic.WriteFile(flagOutput, strings.NewReader(output))
	}
	return err
}

// Reflect returns the json schema of aimeta.Result.
func Reflect() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&aimeta.Result{})
	schema.Title = "sdmeta extract result"
	return schema
}

func init() {
	schemaCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Force overwriting without confirmation")
	schemaCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", `Output file path. Use "-" for stdout`)
	cmd.RootCmd.AddCommand(schemaCmd)
}
