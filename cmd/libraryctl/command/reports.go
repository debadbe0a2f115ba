package command

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"libraryhub/internal/app"
	"libraryhub/internal/http-api/service"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Print the most rented books, top paying members and recent rentals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			report, err := a.Services.Reports.Summary(cmd.Context())
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		})
	},
}

func printReport(r *service.Report) {
	heading := color.New(color.Bold, color.FgCyan)

	heading.Println("Most rented books")
	for i, b := range r.TopBooks {
		fmt.Printf("%d. %s by %s (rented %d times)\n", i+1, b.Title, b.Authors, b.RentCount)
	}
	fmt.Println()

	heading.Println("Highest paying members")
	for i, m := range r.TopMembers {
		fmt.Printf("%d. %s <%s> paid %s\n", i+1, m.Name, m.Email, service.FormatMoney(m.AmountPaid))
	}
	fmt.Println()

	heading.Println("Recent transactions")
	for _, rt := range r.RecentRentals {
		status := color.YellowString("out")
		if rt.IsReturned() {
			status = color.GreenString("returned %s", rt.ReturnDate.Format("2006-01-02"))
		}
		fmt.Printf("#%d book %d member %d rented %s, %s\n",
			rt.ID, rt.BookID, rt.MemberID, rt.RentDate.Format("2006-01-02"), status)
	}
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}
