package main

import (
	"os"

	"github.com/spf13/cobra"

	"model-usage/internal/usage"
)

var (
	mergeOutput string
	mergeFormat string
)

var mergeCmd = &cobra.Command{
	Use:   "merge snapshot...",
	Short: "Combine usage snapshots",
	Long: `Merge snapshots of several code bases sharing one database. Flags are
combined; no flag set by any input is ever cleared.`,
	Example: `  model-usage merge billing.yaml shop.yaml -o usage.yaml`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := usage.NewStore()

		for _, path := range args {
			s, err := readSnapshot(path)
			if err != nil {
				return err
			}

			store.Merge(s)
		}

		w, closeOut, err := openOutput(cmd, mergeOutput)
		if err != nil {
			return GeneralError("opening output", err)
		}

		if err := writeStore(w, store, mergeFormat); err != nil {
			_ = closeOut()
			return GeneralError("writing usage", err)
		}

		return closeOut()
	},
}

func init() {
	f := mergeCmd.Flags()
	f.StringVarP(&mergeOutput, "output", "o", "", "output file (default stdout)")
	f.StringVar(&mergeFormat, "format", "yaml", "output format: yaml, json or table")
}

func readSnapshot(path string) (*usage.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, GeneralError("opening snapshot", err)
	}
	defer func() { _ = f.Close() }()

	s, err := usage.ReadSnapshot(f)
	if err != nil {
		return nil, GeneralError("reading snapshot "+path, err)
	}

	return s, nil
}
