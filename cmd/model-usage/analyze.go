package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"model-usage/internal/analyze"
	"model-usage/internal/diagnostic"
	"model-usage/internal/registry"
	"model-usage/internal/scan"
	"model-usage/internal/usage"
)

var (
	analyzeRegistry string
	analyzeFilter   string
	analyzePatterns []string
	analyzeOutput   string
	analyzeFormat   string
	analyzeGen      bool
	analyzeTests    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir...]",
	Short: "Infer per-entity usage",
	Long: `Load the packages of one or more project directories, infer which
registered entities they read and write, and print the merged usage records.`,
	Example: `  # Analyse the current module with a registry file
  model-usage analyze --registry models.yaml

  # Analyse two services and write one snapshot
  model-usage analyze ./billing ./shop -o usage.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyAnalyzeFlags(cmd)

		dirs := args
		if len(dirs) == 0 {
			dirs = []string{cfg.Dir}
		}

		store, results, err := analyzeDirs(cmd.Context(), dirs)
		if err != nil {
			return err
		}

		if !quiet {
			printDiagnostics(cmd.ErrOrStderr(), results)
		}

		w, closeOut, err := openOutput(cmd, resolveString(analyzeOutput, cfg.Output))
		if err != nil {
			return GeneralError("opening output", err)
		}

		if err := writeStore(w, store, analyzeFormat); err != nil {
			_ = closeOut()
			return GeneralError("writing usage", err)
		}

		return closeOut()
	},
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeRegistry, "registry", "", "entity registry file (default: discover from model structs)")
	f.StringVar(&analyzeFilter, "filter", "", "import path (or prefix ending in /...) entities are imported from")
	f.StringSliceVar(&analyzePatterns, "patterns", nil, "package patterns to load (default ./...)")
	f.StringVarP(&analyzeOutput, "output", "o", "", "output file (default stdout)")
	f.StringVar(&analyzeFormat, "format", "yaml", "output format: yaml, json or table")
	f.BoolVar(&analyzeGen, "include-generated", false, "also analyse generated files")
	f.BoolVar(&analyzeTests, "tests", false, "also load _test.go files")
}

func applyAnalyzeFlags(cmd *cobra.Command) {
	cfg.Registry = resolveString(analyzeRegistry, cfg.Registry)
	cfg.Filter = resolveString(analyzeFilter, cfg.Filter)
	cfg.IncludeGenerated = resolveBool(cmd, "include-generated", analyzeGen, cfg.IncludeGenerated)
	cfg.Tests = resolveBool(cmd, "tests", analyzeTests, cfg.Tests)

	if len(analyzePatterns) > 0 {
		cfg.Patterns = analyzePatterns
	}
}

// dirResult is the analysis of one project directory.
type dirResult struct {
	dir    string
	load   diagnostic.Diagnostics
	result *scan.Result
}

// analyzeDirs analyses every directory concurrently and merges the stores in
// argument order.
func analyzeDirs(ctx context.Context, dirs []string) (*usage.Store, []*dirResult, error) {
	results := make([]*dirResult, len(dirs))

	g, ctx := errgroup.WithContext(ctx)

	for i, dir := range dirs {
		g.Go(func() error {
			res, err := analyzeDir(ctx, dir)
			if err != nil {
				return err
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	store := usage.NewStore()
	for _, res := range results {
		store.Merge(res.result.Store)
	}

	return store, results, nil
}

func analyzeDir(ctx context.Context, dir string) (*dirResult, error) {
	log := logger.With(slog.String("dir", dir))

	proj, err := analyze.Loader{Dir: dir, Patterns: cfg.Patterns, Tests: cfg.Tests}.Load(ctx)
	if err != nil {
		return nil, LoadError("loading "+dir, err)
	}

	for _, d := range proj.Diagnostics.All() {
		diagnostic.Log(log, d)
	}

	reg, err := loadRegistry(proj)
	if err != nil {
		return nil, ConfigError("loading registry", err)
	}

	log.Info("registry ready", slog.Int("entities", reg.Len()))

	vocab := cfg.VocabularyValue()

	res, err := scan.Run(proj, reg, scan.Options{
		ImportFilter:     cfg.Filter,
		IncludeGenerated: cfg.IncludeGenerated,
		Vocabulary:       &vocab,
		Logger:           log,
	})
	if err != nil {
		return nil, ConfigError("analysing "+dir, err)
	}

	return &dirResult{dir: dir, load: proj.Diagnostics, result: res}, nil
}

func loadRegistry(proj *analyze.Project) (*registry.Registry, error) {
	if cfg.Registry != "" {
		return registry.LoadFile(cfg.Registry)
	}

	return analyze.Discover(proj, analyze.DiscoverOptions{
		Packages: cfg.Discover.Packages,
		Base:     cfg.Discover.Base,
	})
}

func printDiagnostics(w io.Writer, results []*dirResult) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen, color.Bold)

	var warnings, errs int

	for _, res := range results {
		all := append(res.load.All(), res.result.Diagnostics.All()...)

		for _, d := range all {
			switch d.Severity {
			case diagnostic.DiagnosticError:
				errs++
				red.Fprint(w, "error   ")
			case diagnostic.DiagnosticWarning:
				warnings++
				yellow.Fprint(w, "warning ")
			default:
				if verbose == 0 {
					continue
				}

				cyan.Fprint(w, "info    ")
			}

			fmt.Fprintln(w, d.String())
		}
	}

	if errs+warnings == 0 {
		green.Fprintln(w, "✓ no problems found")
		return
	}

	yellow.Fprintf(w, "%d warning(s), %d error(s)\n", warnings, errs)
}

func writeStore(w io.Writer, store *usage.Store, format string) error {
	switch format {
	case "", "yaml":
		return usage.WriteSnapshot(w, store)
	case "json":
		var buf bytes.Buffer
		if err := usage.WriteSnapshot(&buf, store); err != nil {
			return err
		}

		data, err := yaml.YAMLToJSON(buf.Bytes())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case "table":
		return writeTable(w, store)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeTable(w io.Writer, store *usage.Store) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tTABLE\tSELECT\tINSERT\tUPDATE\tDELETE")

	mark := func(b bool) string {
		if b {
			return "x"
		}

		return "-"
	}

	for _, rec := range store.Records() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Entity, rec.Table, mark(rec.Select), mark(rec.Insert), mark(rec.Update), mark(rec.Delete))
	}

	return tw.Flush()
}
