package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"

	"github.com/sagan/sdmeta/constants"
	"github.com/sagan/sdmeta/features/aimeta"
)

// GetConfigFile returns the heuristics config file to use.
// It returns flagValue if set, otherwise the SDMETA_CONFIG environment variable (may be empty).
func GetConfigFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(constants.ENV_CONFIG)
}

// LoadHeuristics reads a toml config file over the built-in defaults.
// Keys not present in the file keep their default value; a list in the file replaces the default list.
// Unknown keys are an error. If name is empty, the defaults are returned.
func LoadHeuristics(name string) (*aimeta.Heuristics, error) {
	h := aimeta.DefaultHeuristics()
	if name == "" {
		return h, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoder := toml.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(h); err != nil {
		return nil, fmt.Errorf("invalid config file %q: %w", name, err)
	}
	log.Debugf("loaded config file %q", name)
	return h, nil
}
