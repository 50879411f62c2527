package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diarium/diarium/internal/codec"
	"github.com/diarium/diarium/internal/ledger"
)

var importPlanID int64

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import a previously exported workbook as a new book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		c := codec.New(st, newLogger())
		book, err := c.Import(context.Background(), f, importPlanID)
		if err != nil {
			return err
		}
		fmt.Printf("Imported book [%d] %s %d (ref %s)\n",
			book.ID, ledger.MonthName(book.Month), book.Year, book.ImportRef)
		return nil
	},
}

func init() {
	importCmd.Flags().Int64Var(&importPlanID, "plan", 0, "Plan to resolve account codes against")
	rootCmd.AddCommand(importCmd)
}
