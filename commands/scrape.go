package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"sjsage522/deliveryscraper/config"
	"sjsage522/deliveryscraper/pkg/errors"
	"sjsage522/deliveryscraper/services/report"
)

func newScrapeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape [city]",
		Short: "Scrapes every postal code of a city and writes the aggregated table.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			city := strings.Join(args, " ")
			if city == "" {
				var err error
				city, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), "Inserisci la città: ")
				if err != nil {
					return err
				}
			}

			services := initializeServices(cmd.Context(), cfg)
			defer services.Cleanup()

			summary, err := newRunWorker(cfg, services).Run(cmd.Context(), city)
			if err != nil {
				return err
			}

			report.Render(cmd.OutOrStdout(), summary)
			if summary.Empty() {
				fmt.Fprintf(cmd.OutOrStdout(), "No restaurants found for %s\n", summary.City)
			}
			return nil
		},
	}
}

// prompt writes question to out and reads one non-empty line from in
func prompt(in io.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil && err != io.EOF {
			return "", errors.NewConfiguration("failed to read input", err)
		}
		return "", errors.NewConfiguration("no value entered", nil)
	}
	return line, nil
}
