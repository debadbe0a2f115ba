package command

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"libraryhub/internal/app"
	"libraryhub/internal/http-api/service"
	"libraryhub/internal/ingestion/frappe"
)

var (
	importQuery    frappe.Query
	importCount    int
	importQuantity int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import books from the Frappe catalog",
	Long: `Fetch books page by page from the Frappe library API and add the ones
not already in the catalog. Filters match the API's title, authors, isbn and
publisher parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.Config.ImportTimeout)
			defer cancel()

			result, err := a.Services.Imports.Import(ctx, service.ImportRequest{
				Query:           importQuery,
				NumberOfBooks:   importCount,
				QuantityPerBook: importQuantity,
			})
			if result != nil {
				printNotice(result.Notice)
				fmt.Printf("  Imported: %d  Skipped: %d  Malformed: %d  Pages: %d\n",
					result.Imported, result.Skipped, result.Malformed, result.Pages)
			}
			return err
		})
	},
}

func printNotice(n service.Notice) {
	switch n.Level {
	case service.LevelSuccess:
		color.Green("%s", n.Message)
	case service.LevelWarning:
		color.Yellow("%s", n.Message)
	case service.LevelDanger:
		color.Red("%s", n.Message)
	default:
		color.Cyan("%s", n.Message)
	}
}

func init() {
	importCmd.Flags().StringVar(&importQuery.Title, "title", "", "filter by title")
	importCmd.Flags().StringVar(&importQuery.Authors, "authors", "", "filter by authors")
	importCmd.Flags().StringVar(&importQuery.ISBN, "isbn", "", "filter by isbn")
	importCmd.Flags().StringVar(&importQuery.Publisher, "publisher", "", "filter by publisher")
	importCmd.Flags().IntVarP(&importCount, "number", "n", 20, "number of books to import")
	importCmd.Flags().IntVarP(&importQuantity, "quantity", "q", 1, "copies of each book")

	rootCmd.AddCommand(importCmd)
}
