package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sagan/sdmeta/config"
	"github.com/sagan/sdmeta/constants"
	"github.com/sagan/sdmeta/features/aimeta"
	"github.com/sagan/sdmeta/version"
)

var RootCmd = &cobra.Command{
	Use:   "sdmeta",
	Short: "sdmeta " + version.Version,
	Long: `sdmeta ` + version.Version + "." + `
Extract AI image generation metadata (prompts & parameters) written by
AUTOMATIC1111 / ComfyUI / NovelAI into PNG, JPEG and WebP files.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLog,
}

var (
	flagLogLevel string
	flagConfig   string
)

func setupLog(cmd *cobra.Command, args []string) error {
	levelName := flagLogLevel
	if levelName == "" {
		levelName = os.Getenv(constants.ENV_LOG_LEVEL)
	}
	if levelName == "" {
		levelName = constants.DEFAULT_LOG_LEVEL
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	return nil
}

// GetExtractor returns an extractor using the heuristics of --config flag / SDMETA_CONFIG env.
func GetExtractor() (*aimeta.Extractor, error) {
	h, err := config.LoadHeuristics(config.GetConfigFile(flagConfig))
	if err != nil {
		return nil, err
	}
	return aimeta.New(h), nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&flagLogLevel, "log-level", "", "", constants.HELP_LOG_LEVEL_FLAG)
	RootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "", "", constants.HELP_CONFIG_FLAG)
}
