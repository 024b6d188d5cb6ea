package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tenderfeed/cmd/tenderfeed-cli/utils"
	"tenderfeed/lib/restyutil"
	"tenderfeed/lib/scrapers"
	"tenderfeed/lib/scrapers/fetch"
	"tenderfeed/lib/serviceutil"
	"tenderfeed/lib/tenderstore"

	"github.com/spf13/cobra"
)

var (
	fetchSource  *string
	fetchMax     *int
	fetchOutput  *string
	fetchDumpDir *string
)

func init() {
	fetchSource = fetchCmd.Flags().String(
		"source", "",
		fmt.Sprintf("The tender source, one of: %s.", strings.Join(scrapers.Sources(), ", ")),
	)
	fetchMax = fetchCmd.Flags().Int("max", 100, "The maximum amount of tenders to fetch.")
	fetchOutput = fetchCmd.Flags().String("output", "", "The csv file to write results to.")
	fetchDumpDir = fetchCmd.Flags().String(
		"http-dump", "",
		"Optional directory to dump every HTTP exchange to, for debugging the scraper.",
	)
	fetchCmd.MarkFlagRequired("source")
	fetchCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch --source <name> --output <path/to/output.csv> [--max <n>]",
	Short: "Fetches tenders from one source and writes them to a csv file.",
	Run: func(cmd *cobra.Command, args []string) {
		scraper, err := scrapers.New(*fetchSource, fetch.ClientOptions{})
		if err != nil {
			serviceutil.Fatal("unknown source", err)
		}
		if *fetchDumpDir != "" {
			instrumented, ok := scraper.(interface {
				SetInstrumentOutput(output restyutil.InstrumentOutput)
			})
			if ok {
				instrumented.SetInstrumentOutput(restyutil.NewFilesystemOutput(*fetchDumpDir))
			}
		}

		t1 := time.Now()
		items, err := scraper.Fetch(cmd.Context(), *fetchMax)
		if err != nil {
			serviceutil.Fatal("failed to fetch tenders", err)
		}
		slog.Info("fetch time", "seconds", time.Since(t1).Seconds())

		err = tenderstore.Save(*fetchOutput, items)
		if err != nil {
			serviceutil.Fatal("failed to save tenders", err)
		}

		table := utils.NewTable()
		table.AppendHeader(utils.HeaderRow(tenderstore.Columns))
		for _, item := range items {
			table.AppendRow(utils.Row(tenderstore.Row(item)))
		}
		table.Render()

		fmt.Printf(
			"saved %d tenders (source: %s) to %s\n",
			len(items), scraper.Source(), *fetchOutput,
		)
	},
}
