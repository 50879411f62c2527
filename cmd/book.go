package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diarium/diarium/internal/ledger"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage journal books",
}

var (
	bookMonth      int
	bookYear       int
	bookCompany    string
	bookAccountant string
	bookPlanID     int64
)

var bookCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a journal book for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		book, err := st.CreateBook(context.Background(), bookMonth, bookYear, bookCompany, bookAccountant, bookPlanID)
		if err != nil {
			return err
		}
		fmt.Printf("Book created: [%d] %s %d, %s (accountant: %s)\n",
			book.ID, ledger.MonthName(book.Month), book.Year, book.Company, book.Accountant)
		return nil
	},
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal books",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		books, err := st.ListBooks(context.Background())
		if err != nil {
			return err
		}
		for _, b := range books {
			origin := ""
			if b.Origin == ledger.OriginImported {
				origin = " (imported)"
			}
			fmt.Printf("[%d] %s %d  %s  debit=%s credit=%s%s\n",
				b.ID, ledger.MonthName(b.Month), b.Year, b.Company,
				b.TotalDebit.StringFixed(2), b.TotalCredit.StringFixed(2), origin)
		}
		return nil
	},
}

func init() {
	bookCreateCmd.Flags().IntVar(&bookMonth, "month", 0, "Month (1-12)")
	bookCreateCmd.Flags().IntVar(&bookYear, "year", 0, "Year")
	bookCreateCmd.Flags().StringVar(&bookCompany, "company", "", "Company name")
	bookCreateCmd.Flags().StringVar(&bookAccountant, "accountant", "", "Accountant name")
	bookCreateCmd.Flags().Int64Var(&bookPlanID, "plan", 0, "Chart plan ID")
	bookCreateCmd.MarkFlagRequired("month")
	bookCreateCmd.MarkFlagRequired("year")
	bookCreateCmd.MarkFlagRequired("company")

	bookCmd.AddCommand(bookCreateCmd, bookListCmd)
	rootCmd.AddCommand(bookCmd)
}
