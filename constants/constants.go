package constants

const (
	// Env variable names

	ENV_CONFIG    = "SDMETA_CONFIG"    // heuristics config file (toml)
	ENV_LOG_LEVEL = "SDMETA_LOG_LEVEL" // logrus level name

	DEFAULT_LOG_LEVEL = "warn"

	// Default number of files processed in parallel by "extract"
	DEFAULT_PARALLEL = 4

	TIME_FORMAT = "2006-01-02T15:04:05Z"

	MIME_PNG = "image/png"

	FORMAT_JSON = "json"
	FORMAT_YAML = "yaml"
	FORMAT_TOML = "toml"
)

const HELP_TEMPLATE_FLAG = `The Go text template string. If the value starts with "@", ` +
	`it (the rest part after @) is treated as a filename, ` +
	`which contents will be used as template. ` +
	`All sprout functions are supported, see https://github.com/go-sprout/sprout`

const HELP_CONFIG_FLAG = `Heuristics config file (toml). Overrides keyword tables and scoring weights. ` +
	`If not set, it uses ` + ENV_CONFIG + ` env; if that is also empty, built-in defaults are used`

const HELP_LOG_LEVEL_FLAG = `Log level: "trace", "debug", "info", "warn", "error". ` +
	`If not set, it uses ` + ENV_LOG_LEVEL + ` env, then fallbacks to "` + DEFAULT_LOG_LEVEL + `"`
