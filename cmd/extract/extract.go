package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/natefinch/atomic"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/sagan/sdmeta/cmd"
	"github.com/sagan/sdmeta/constants"
	"github.com/sagan/sdmeta/features/aimeta"
	"github.com/sagan/sdmeta/util"
	"github.com/sagan/sdmeta/util/helper"
	"github.com/sagan/sdmeta/util/stringutil"
)

var extractCmd = &cobra.Command{
	Use:     "extract {file.png... | -}",
	Aliases: []string{"parse"},
	Short:   "Extract AI generation metadata (prompts & parameters) from image files",
	Long: `Extract AI generation metadata (prompts & parameters) from image files.

It reads the text chunks of PNG files written by AUTOMATIC1111 ("parameters"), ComfyUI ("prompt" & "workflow")
and NovelAI ("Comment"), and the EXIF ImageDescription / UserComment of any image file.
Each result has a "standardizedData" field with the merged generation tool, positive & negative prompt
and parameters, and an "extractionMethods" field listing every metadata source found.

Args are file names; "*.png" style glob is supported. If {file} is "-", read from stdin.
Multiple files are processed in parallel and output as an array, in args order.

Use --template flag to format the output, each result is rendered separately.
The template can access the json fields of result, e.g. ".standardizedData.positive".

Examples:
  sdmeta extract input.png
  sdmeta extract *.png --brief
  sdmeta extract input.png -t "{{.standardizedData.positive}}"
  sdmeta extract input.png --format yaml -o meta.yaml
  cat input.webp | sdmeta extract -`,
	Args: cobra.MinimumNArgs(1),
	RunE: doExtract,
}

var (
	flagForce    bool
	flagBrief    bool
	flagParallel int
	flagFormat   string
	flagTemplate string
	flagOutput   string
	flagType     string
)

func init() {
	extractCmd.Flags().BoolVarP(&flagForce, "force", "", false, "Override existing file")
	extractCmd.Flags().BoolVarP(&flagBrief, "brief", "", false, "Output a brief table, one line per file")
	extractCmd.Flags().IntVarP(&flagParallel, "parallel", "", constants.DEFAULT_PARALLEL,
		"Number of files processed in parallel")
	extractCmd.Flags().StringVarP(&flagFormat, "format", "", constants.FORMAT_JSON,
		`Output format: "`+constants.FORMAT_JSON+`", "`+constants.FORMAT_YAML+`" or "`+constants.FORMAT_TOML+`"`)
	extractCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", `Template to format the output. `+
		constants.HELP_TEMPLATE_FLAG)
	extractCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", `Output file path. Use "-" for stdout`)
	extractCmd.Flags().StringVarP(&flagType, "type", "", "",
		`Declared mime type of input files, e.g. "image/png". If not set, it's detected from file contents`)
	cmd.RootCmd.AddCommand(extractCmd)
}

func doExtract(command *cobra.Command, args []string) (err error) {
	if flagOutput != "-" {
		if exists, err := util.FileExists(flagOutput); err != nil || (exists && !flagForce) {
			return fmt.Errorf("output file %q exists or can't access, err=%w", flagOutput, err)
		}
	}
	switch flagFormat {
	case constants.FORMAT_JSON, constants.FORMAT_YAML, constants.FORMAT_TOML:
	default:
		return fmt.Errorf("unsupported format %q", flagFormat)
	}
	if flagBrief && flagTemplate != "" {
		return fmt.Errorf("--brief and --template flags are NOT compatible")
	}
	if flagParallel < 1 {
		return fmt.Errorf("invalid --parallel value %d", flagParallel)
	}
	var tpl *helper.Template
	if flagTemplate != "" {
		if tpl, err = helper.GetTemplate(flagTemplate, true); err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}
	}
	extractor, err := cmd.GetExtractor()
	if err != nil {
		return err
	}

	files := helper.ParseFilenameArgs(args...)
	if slices.Contains(files, "-") {
		if len(files) > 1 {
			return fmt.Errorf(`"-" (stdin) can't be mixed with other files`)
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("stdin is a tty, refuse to read image from it")
		}
	}

	results := make([]*aimeta.Result, len(files))
	errs := make([]error, len(files))
	g, ctx := errgroup.WithContext(command.Context())
	g.SetLimit(flagParallel)
	for i, file := range files {
		g.Go(func() error {
			results[i], errs[i] = extractFile(ctx, extractor, file, command.InOrStdin())
			if errs[i] != nil {
				log.Errorf("%s: %v", file, errs[i])
			}
			return nil
		})
	}
	g.Wait()

	var output string
	switch {
	case flagBrief:
		sb := &strings.Builder{}
		printBrief(sb, files, results, errs)
		output = sb.String()
	case tpl != nil:
		output, err = renderTemplate(tpl, results)
	default:
		output, err = marshalResults(flagFormat, results)
	}
	if err != nil {
		return err
	}
	if flagOutput == "-" {
		_, err = command.OutOrStdout().Write([]byte(output))
	} else {
		err = atomic.WriteFile(flagOutput, strings.NewReader(output))
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// extractFile reads name ("-" for stdin) and extracts it's metadata.
func extractFile(ctx context.Context, extractor *aimeta.Extractor, name string,
	stdin io.Reader) (*aimeta.Result, error) {
	info := &aimeta.FileInfo{Name: name, Type: flagType}
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		var stat os.FileInfo
		if stat, err = os.Stat(name); err != nil {
			return nil, err
		}
		if stat.IsDir() {
			return nil, fmt.Errorf("is a directory")
		}
		info.Size = stat.Size()
		info.LastModified = stat.ModTime().UTC().Format(constants.TIME_FORMAT)
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	return extractor.Extract(ctx, data, info)
}

// marshalResults marshals the successfully extracted results. A single result is output as is, not an array.
func marshalResults(format string, results []*aimeta.Result) (string, error) {
	var list []*aimeta.Result
	for _, result := range results {
		if result != nil {
			list = append(list, result)
		}
	}
	var data []byte
	var err error
	switch {
	case len(list) == 0:
		return "", nil
	case len(results) == 1:
		data, err = util.Marshal(format, list[0])
	case format == constants.FORMAT_TOML:
		// toml document root must be a table
		data, err = util.Marshal(format, map[string]any{"results": list})
	default:
		data, err = util.Marshal(format, list)
	}
	if err != nil {
		return "", err
	}
	output := string(data)
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return output, nil
}

func renderTemplate(tpl *helper.Template, results []*aimeta.Result) (string, error) {
	sb := &strings.Builder{}
	for _, result := range results {
		if result == nil {
			continue
		}
		data, err := util.ToGeneric(result)
		if err != nil {
			return "", err
		}
		output, err := tpl.Exec(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", result.Filename, err)
		}
		sb.WriteString(output)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

const (
	briefNameWidth       = 30
	briefToolWidth       = 14
	briefConfidenceWidth = 7
	briefPromptWidth     = 60
)

// printBrief prints an aligned table of files, one line per file.
func printBrief(output io.Writer, files []string, results []*aimeta.Result, errs []error) {
	fmt.Fprintf(output, "%-*s  %-*s  %-*s  %s\n", briefNameWidth, "File", briefToolWidth, "Tool",
		briefConfidenceWidth, "Conf", "Positive")
	for i, file := range files {
		stringutil.PrintStringInWidth(output, file, briefNameWidth, true)
		fmt.Fprint(output, "  ")
		if errs[i] != nil {
			fmt.Fprintf(output, "ERROR: %s\n", stringutil.ReplaceNewLinesWithSpace(errs[i].Error()))
			continue
		}
		result := results[i]
		tool := "-"
		confidence := "-"
		if result.Success {
			tool = string(result.Standardized.Tool)
			confidence = string(result.Methods[0].Confidence)
		}
		stringutil.PrintStringInWidth(output, tool, briefToolWidth, true)
		fmt.Fprint(output, "  ")
		stringutil.PrintStringInWidth(output, confidence, briefConfidenceWidth, true)
		fmt.Fprint(output, "  ")
		positive := stringutil.Clean(stringutil.ReplaceNewLinesWithSpace(result.Standardized.Positive))
		positive, _ = stringutil.StringPrefixInWidth(positive, briefPromptWidth)
		fmt.Fprintln(output, positive)
	}
}
