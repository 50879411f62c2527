package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/diarium/diarium/internal/ledger"
	"github.com/diarium/diarium/internal/store"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage journal entries",
}

var (
	entryBookID  int64
	entryEditID  int64
	entryDay     int
	entryMemo    string
	entryDebits  []string
	entryCredits []string
)

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a balanced journal entry",
	Long: "Record a journal entry from --debit/--credit postings of the form " +
		"CODE=AMOUNT, e.g. --debit 1.1.1.001=100.00 --credit 4.1.1.001=100.00. " +
		"Debits and credits must balance.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		var draft *ledger.Draft
		if entryEditID == 0 {
			draft = ledger.NewDraft(entryBookID, entryDay)
		} else {
			draft = ledger.EditDraft(entryBookID, entryEditID, entryDay)
		}
		draft.Memo = entryMemo

		book, err := st.GetBook(ctx, entryBookID)
		if err != nil {
			return err
		}
		if err := addPostings(ctx, st, draft, book.PlanID, entryDebits, true); err != nil {
			return err
		}
		if err := addPostings(ctx, st, draft, book.PlanID, entryCredits, false); err != nil {
			return err
		}

		if err := draft.Validate(); err != nil {
			return err
		}
		entry, err := st.SaveEntry(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("Entry saved: [%d] #%d on %s (%d lines)\n",
			entry.ID, entry.Sequence, entry.Date, len(entry.Lines))
		return nil
	},
}

func addPostings(ctx context.Context, st *store.Store, draft *ledger.Draft, planID int64, postings []string, debit bool) error {
	for _, p := range postings {
		code, amount, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("posting %q must be CODE=AMOUNT", p)
		}
		acc, err := st.FindAccountByCode(ctx, planID, strings.TrimSpace(code))
		if err != nil {
			return err
		}
		d, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return fmt.Errorf("posting %q: %w", p, err)
		}
		if debit {
			draft.AddLine(acc.ID, d, decimal.Zero)
		} else {
			draft.AddLine(acc.ID, decimal.Zero, d)
		}
	}
	return nil
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a book's entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		book, err := st.GetBook(ctx, entryBookID)
		if err != nil {
			return err
		}
		entries, err := st.ListEntries(ctx, entryBookID)
		if err != nil {
			return err
		}
		accounts, err := st.ListPlanAccounts(ctx, book.PlanID)
		if err != nil {
			return err
		}
		byID := make(map[int64]ledger.Account, len(accounts))
		for _, a := range accounts {
			byID[a.ID] = a
		}

		for _, e := range entries {
			fmt.Printf("#%d  %s", e.Sequence, e.Date)
			if e.Memo != "" {
				fmt.Printf("  %s", e.Memo)
			}
			fmt.Println()
			for _, ln := range e.Lines {
				acc := byID[ln.AccountID]
				side := "debit "
				amount := ln.Debit
				if ln.Credit.IsPositive() {
					side = "credit"
					amount = ln.Credit
				}
				fmt.Printf("  %s %-12s %s\n", side, acc.Code, amount.StringFixed(2))
			}
		}
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry and back its amounts out of the book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteEntry(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Entry %d deleted\n", id)
		return nil
	},
}

func init() {
	entryAddCmd.Flags().Int64Var(&entryBookID, "book", 0, "Journal book ID")
	entryAddCmd.Flags().Int64Var(&entryEditID, "edit", 0, "Existing entry ID to replace")
	entryAddCmd.Flags().IntVar(&entryDay, "day", 1, "Day of month (1-31)")
	entryAddCmd.Flags().StringVar(&entryMemo, "memo", "", "Entry memo")
	entryAddCmd.Flags().StringArrayVar(&entryDebits, "debit", nil, "Debit posting CODE=AMOUNT")
	entryAddCmd.Flags().StringArrayVar(&entryCredits, "credit", nil, "Credit posting CODE=AMOUNT")
	entryAddCmd.MarkFlagRequired("book")

	entryListCmd.Flags().Int64Var(&entryBookID, "book", 0, "Journal book ID")
	entryListCmd.MarkFlagRequired("book")

	entryCmd.AddCommand(entryAddCmd, entryListCmd, entryDeleteCmd)
	rootCmd.AddCommand(entryCmd)
}
