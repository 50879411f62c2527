package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/diarium/diarium/internal/codec"
)

var (
	exportOut   string
	exportChart bool
)

var exportCmd = &cobra.Command{
	Use:   "export <book-id>",
	Short: "Export a journal book as an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book id %q", args[0])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		out, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer out.Close()

		c := codec.New(st, newLogger())
		if err := c.Export(context.Background(), bookID, exportChart, out); err != nil {
			os.Remove(exportOut)
			return err
		}
		fmt.Printf("Exported book %d to %s\n", bookID, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "journal.xlsx", "Output file")
	exportCmd.Flags().BoolVar(&exportChart, "chart", false, "Include the Chart of Accounts sheet")
	rootCmd.AddCommand(exportCmd)
}
