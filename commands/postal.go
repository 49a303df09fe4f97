package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sjsage522/deliveryscraper/config"
	"sjsage522/deliveryscraper/internal/scraper"
	"sjsage522/deliveryscraper/pkg/errors"
	"sjsage522/deliveryscraper/services/report"
)

func newPostalCommand(cfg *config.Config) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "postal [code]",
		Short: "Scrapes a single postal code and writes its restaurant table.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			if len(args) == 1 {
				code = args[0]
			} else {
				var err error
				code, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Inserisci il tuo CAP: ")
				if err != nil {
					return err
				}
			}
			if !isPostalCode(code) {
				return errors.NewConfiguration(fmt.Sprintf("%q is not a postal code", code), nil)
			}

			services := initializeServices(cmd.Context(), cfg)
			defer services.Cleanup()

			result := newRunWorker(cfg, services).RunPostal(cmd.Context(), label, code)
			if result.Err != nil {
				return result.Err
			}

			table := scraper.RecordTable(result.Records)
			report.RenderTable(cmd.OutOrStdout(), fmt.Sprintf("CAP %s: %d restaurants", code, len(result.Records)),
				[]string{"id", "name", "position", "deliveryCost", "starRating", "cuisineTypes_1"},
				pick(table, 0, 1, 8, 9, 12, 19))
			if result.File != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Written", result.File)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "postal", "name prefix of the output directory and file")
	return cmd
}

// pick projects the given columns out of every row of t
func pick(t scraper.RecordTable, columns ...int) [][]string {
	rows := t.Rows()
	out := make([][]string, len(rows))
	for i, row := range rows {
		for _, c := range columns {
			out[i] = append(out[i], row[c])
		}
	}
	return out
}

func isPostalCode(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
