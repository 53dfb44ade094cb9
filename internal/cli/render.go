package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/penstroke/pkg/config"
	"github.com/matzehuels/penstroke/pkg/model"
	"github.com/matzehuels/penstroke/pkg/pipeline"
	"github.com/matzehuels/penstroke/pkg/store"
)

// defaultOutputBase names output files when the text comes from arguments.
const defaultOutputBase = "handwriting"

// renderOpts holds the command-line flags for the render command that do not
// map onto pipeline.Options.
type renderOpts struct {
	file       string // read text from this file ("-" for stdin)
	output     string // output file (single format) or base path
	formatsStr string // comma-separated formats
	noCache    bool   // bypass the cache entirely
	record     string // write sampled strokes to this replay file
	save       bool   // persist the result in the document store
	batch      bool   // treat arguments as input files
	jobs       int    // concurrent requests in batch mode
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro    = renderOpts{jobs: pipeline.DefaultBatchLimit}
		opts  pipeline.Options
		bias  float64
		style int
	)

	cmd := &cobra.Command{
		Use:   "render [line...]",
		Short: "Write text as handwriting",
		Long: `Write text as handwriting.

Each argument is one line. Use --text for a multi-line string or --file to
read the text from a file; blank lines in either are dropped. Lines may use
up to 75 characters from the model's alphabet (see 'penstroke check').

The model is sampled once per request and the result is cached, so repeated
renders of the same text are instant. Use --refresh to sample again.

With --batch, every argument is a text file rendered to its own output next
to it, with up to --jobs files in flight at once.`,
		Example: `  penstroke render "Hello there" "General Kenobi"
  penstroke render --file letter.txt -f svg,pdf -o letter
  penstroke render --batch notes/*.txt --jobs 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("bias") {
				opts.Bias = &bias
			}
			if flags.Changed("style") {
				opts.Style = &style
			}
			opts.Formats = pipeline.ParseFormats(ro.formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if ro.batch {
				return c.runBatch(cmd.Context(), args, opts, ro)
			}
			return c.runRender(cmd.Context(), args, opts, ro)
		},
	}

	// Input flags
	cmd.Flags().StringVarP(&ro.file, "file", "i", "", "read text from a file (- for stdin)")
	cmd.Flags().StringVarP(&opts.Text, "text", "t", "", "text to write; newlines separate lines")
	cmd.Flags().BoolVar(&ro.batch, "batch", false, "treat arguments as input files")
	cmd.Flags().IntVarP(&ro.jobs, "jobs", "j", ro.jobs, "concurrent requests in batch mode")

	// Model flags
	cmd.Flags().Float64VarP(&bias, "bias", "b", 0, "sampling bias in [0,1]; higher is neater")
	cmd.Flags().IntVarP(&style, "style", "s", 0, "handwriting style index")
	cmd.Flags().Float64SliceVar(&opts.Biases, "biases", nil, "per-line biases")
	cmd.Flags().IntSliceVar(&opts.Styles, "styles", nil, "per-line styles")

	// Drawing flags
	cmd.Flags().StringVar(&opts.Color, "color", "", "stroke color")
	cmd.Flags().Float64Var(&opts.StrokeWidth, "stroke-width", 0, "stroke width")
	cmd.Flags().StringSliceVar(&opts.Colors, "colors", nil, "per-line stroke colors")
	cmd.Flags().Float64SliceVar(&opts.StrokeWidths, "stroke-widths", nil, "per-line stroke widths")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "canvas width")
	cmd.Flags().IntVar(&opts.LineHeight, "line-height", 0, "height of each line")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "stroke scale factor")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default transparent)")

	// Output flags
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVarP(&ro.formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf (comma-separated)")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "sample again even if cached")
	cmd.Flags().StringVar(&ro.record, "record", "", "record sampled strokes to a replay file")
	cmd.Flags().BoolVar(&ro.save, "save", false, "store the result as a document")

	return cmd
}

// runRender renders a single request.
func (c *CLI) runRender(ctx context.Context, args []string, opts pipeline.Options, ro renderOpts) error {
	base := defaultOutputBase
	switch {
	case ro.file != "":
		text, err := readText(ro.file)
		if err != nil {
			return err
		}
		opts.Text = text
		if ro.file != "-" {
			base = strings.TrimSuffix(ro.file, filepath.Ext(ro.file))
		}
	case len(args) > 0:
		opts.Lines = args
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg.Synthesis.Apply(&opts)

	runner, replay, err := c.newRenderRunner(ctx, cfg, ro)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, fmt.Sprintf("Writing %d lines...", len(opts.Lines)))
	spin.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.StopWithError("Synthesis failed")
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Wrote %d lines", result.Stats.LineCount))

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      base,
		output:    ro.output,
		stdout:    os.Stdout,
	}); err != nil {
		return err
	}
	if ro.output != "-" {
		printStats(result.Stats.LineCount, result.Stats.PathCount, result.CacheInfo.SynthesisHit)
	}

	if ro.save {
		if err := c.saveDocument(ctx, cfg, opts.Lines, result); err != nil {
			return err
		}
	}
	return writeReplay(ro.record, replay)
}

// runBatch renders every input file as its own request.
func (c *CLI) runBatch(ctx context.Context, files []string, tmpl pipeline.Options, ro renderOpts) error {
	if len(files) == 0 {
		return fmt.Errorf("--batch needs at least one input file")
	}
	if ro.output != "" && ro.output != "-" {
		if info, err := os.Stat(ro.output); err != nil || !info.IsDir() {
			return fmt.Errorf("--output must be an existing directory in batch mode")
		}
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg.Synthesis.Apply(&tmpl)

	batch := make([]pipeline.Options, len(files))
	for i, f := range files {
		text, err := readText(f)
		if err != nil {
			return err
		}
		opts := tmpl
		opts.Text = text
		opts.Lines = nil
		batch[i] = opts
	}

	runner, replay, err := c.newRenderRunner(ctx, cfg, ro)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, fmt.Sprintf("Writing %d files...", len(files)))
	spin.Start()

	results, err := runner.ExecuteBatch(ctx, batch, ro.jobs)
	if err != nil {
		spin.StopWithError("Batch failed")
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Wrote %d files", len(files)))

	for i, res := range results {
		base := strings.TrimSuffix(files[i], filepath.Ext(files[i]))
		if ro.output != "" {
			base = filepath.Join(ro.output, filepath.Base(base))
		}
		if err := writeArtifacts(artifactWriteParams{
			artifacts: res.Artifacts,
			formats:   tmpl.Formats,
			base:      base,
		}); err != nil {
			return err
		}
		printStats(res.Stats.LineCount, res.Stats.PathCount, res.CacheInfo.SynthesisHit)
	}
	return writeReplay(ro.record, replay)
}

// newRenderRunner builds a runner, wrapping the model in a recorder when
// --record is set.
func (c *CLI) newRenderRunner(ctx context.Context, cfg *config.Config, ro renderOpts) (*pipeline.Runner, *model.ReplaySampler, error) {
	runner, err := c.newRunner(ctx, cfg, ro.noCache)
	if err != nil {
		return nil, nil, err
	}
	if ro.record == "" {
		return runner, nil, nil
	}
	replay := model.NewReplaySampler(nil)
	runner.Sampler = model.Recorder{Sampler: runner.Sampler, Replay: replay}
	return runner, replay, nil
}

func (c *CLI) saveDocument(ctx context.Context, cfg *config.Config, lines []string, result *pipeline.Result) error {
	var (
		st  store.Store
		err error
	)
	if cfg.Store.Backend == config.StoreMemory {
		st, err = store.NewFileStore(cfg.Store.Dir)
	} else {
		st, err = cfg.OpenStore(ctx)
	}
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	doc := store.NewDocument(lines, result.Synthesis, result.Artifacts[pipeline.FormatSVG])
	if err := st.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	printKeyValue("Document", doc.ID)
	return nil
}

func writeReplay(path string, replay *model.ReplaySampler) error {
	if path == "" || replay == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	if _, err := replay.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write replay file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// readText reads the input text from path, or stdin when path is "-".
func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// =============================================================================
// Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string    // path without extension
	output    string    // --output value
	stdout    io.Writer // target for --output -
}

// writeArtifacts writes each rendered format to disk. A single format goes to
// output verbatim when it is set; multiple formats share output as a base path.
func writeArtifacts(p artifactWriteParams) error {
	if p.output == "-" {
		if len(p.formats) != 1 {
			return fmt.Errorf("--output - needs exactly one format")
		}
		_, err := p.stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("no %s output produced", format)
		}
		path := outputPath(p.output, p.base, format, len(p.formats) == 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// outputPath chooses the file for one format.
func outputPath(output, base, format string, single bool) string {
	if output == "" {
		return base + "." + format
	}
	if single {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}
