package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage chart plans",
}

var planCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty chart plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		plan, err := st.CreatePlan(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Plan created: [%d] %s\n", plan.ID, plan.Name)
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chart plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		plans, err := st.ListPlans(context.Background())
		if err != nil {
			return err
		}
		for _, p := range plans {
			fmt.Printf("[%d] %s\n", p.ID, p.Name)
		}
		return nil
	},
}

var planCloneCmd = &cobra.Command{
	Use:   "clone <src> <dst>",
	Short: "Copy one plan's accounts into another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid source plan %q", args[0])
		}
		dst, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid destination plan %q", args[1])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		copied, err := st.ClonePlan(context.Background(), src, dst)
		if err != nil {
			return err
		}
		fmt.Printf("Copied %d accounts from plan %d to plan %d\n", copied, src, dst)
		return nil
	},
}

func init() {
	planCmd.AddCommand(planCreateCmd, planListCmd, planCloneCmd)
	rootCmd.AddCommand(planCmd)
}
