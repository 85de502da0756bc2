package scan

import (
	"errors"
	"fmt"
	"log/slog"

	"model-usage/internal/analyze"
	"model-usage/internal/classify"
	"model-usage/internal/diagnostic"
	"model-usage/internal/registry"
	"model-usage/internal/resolve"
	"model-usage/internal/usage"
)

// Options configures a Run.
type Options struct {
	// ImportFilter restricts which imports can make entities visible: an exact
	// import path, or a prefix ending in "/..." (empty means every import).
	ImportFilter string
	// IncludeGenerated also scans generated files.
	IncludeGenerated bool
	// Vocabulary overrides classify.DefaultVocabulary.
	Vocabulary *classify.Vocabulary
	// Logger receives diagnostics as they are emitted (default: discard).
	Logger *slog.Logger
	// SkipCompletion leaves join entities uninferred.
	SkipCompletion bool
}

// Result is the outcome of a Run.
type Result struct {
	Store       *usage.Store
	Diagnostics diagnostic.Diagnostics
}

// Run analyses every file of proj against reg. The only errors are invalid
// inputs; problems found in the analysed code are diagnostics.
func Run(proj *analyze.Project, reg *registry.Registry, opts Options) (*Result, error) {
	if proj == nil {
		return nil, errors.New("nil project")
	}

	if reg == nil {
		return nil, errors.New("nil registry")
	}

	vocab := classify.DefaultVocabulary()
	if opts.Vocabulary != nil {
		vocab = *opts.Vocabulary
	}

	cls, err := classify.New(vocab)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = diagnostic.Discard()
	}

	res := &Result{Store: usage.NewStore()}
	v := &visitor{
		proj:       proj,
		reg:        reg,
		classifier: cls,
		resolver:   resolve.New(proj, reg),
		store:      res.Store,
		diags:      &res.Diagnostics,
		logger:     logger,
		filter:     opts.ImportFilter,
	}

	scanned := 0

	for _, f := range proj.Files {
		if f.Generated && !opts.IncludeGenerated {
			logger.Debug("skipping generated file", slog.String("path", f.Path))
			continue
		}

		v.visitFile(f)
		scanned++
	}

	if !opts.SkipCompletion {
		completion := usage.Complete(res.Store, reg)
		for _, d := range completion.All() {
			v.report(d)
		}
	}

	logger.Info("model usage analysed",
		slog.Int("files", scanned),
		slog.Int("entities", res.Store.Len()),
		slog.Int("diagnostics", res.Diagnostics.Len()),
	)

	return res, nil
}
