package main

import (
	"github.com/spf13/cobra"

	"model-usage/internal/analyze"
	"model-usage/internal/registry"
)

var (
	discoverPackages string
	discoverBase     string
	discoverOutput   string
)

var discoverCmd = &cobra.Command{
	Use:   "discover [dir]",
	Short: "Derive an entity registry from model structs",
	Long: `Find structs that embed the ORM base type (or declare TableName) and write
them, with the associations declared in assoc struct tags, as a registry file.`,
	Example: `  model-usage discover --packages example.com/shop/store/... -o models.yaml`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Dir
		if len(args) == 1 {
			dir = args[0]
		}

		proj, err := analyze.Loader{Dir: dir, Patterns: cfg.Patterns}.Load(cmd.Context())
		if err != nil {
			return LoadError("loading "+dir, err)
		}

		reg, err := analyze.Discover(proj, analyze.DiscoverOptions{
			Packages: resolveString(discoverPackages, cfg.Discover.Packages),
			Base:     resolveString(discoverBase, cfg.Discover.Base),
		})
		if err != nil {
			return GeneralError("discovering entities", err)
		}

		data, err := registry.Marshal(reg)
		if err != nil {
			return GeneralError("encoding registry", err)
		}

		w, closeOut, err := openOutput(cmd, discoverOutput)
		if err != nil {
			return GeneralError("opening output", err)
		}

		if _, err := w.Write(data); err != nil {
			_ = closeOut()
			return GeneralError("writing registry", err)
		}

		return closeOut()
	},
}

func init() {
	f := discoverCmd.Flags()
	f.StringVar(&discoverPackages, "packages", "", "package path (or prefix ending in /...) holding the models")
	f.StringVar(&discoverBase, "base", "", "embedded base type marking entities (default Model)")
	f.StringVarP(&discoverOutput, "output", "o", "", "output file (default stdout)")
}
