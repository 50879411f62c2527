package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the account taxonomy",
}

var (
	catalogPlanID   int64
	catalogParentID int64
	catalogName     string
	catalogDesc     string
	catalogCode     string
)

var catalogAddTypeCmd = &cobra.Command{
	Use:   "add-type",
	Short: "Create an account type",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		t, err := st.CreateType(context.Background(), catalogPlanID, catalogName, catalogCode)
		if err != nil {
			return err
		}
		fmt.Printf("Type created: [%d] %s %s\n", t.ID, t.Code, t.Name)
		return nil
	},
}

var catalogAddCategoryCmd = &cobra.Command{
	Use:   "add-category",
	Short: "Create a category under a type",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := st.CreateCategory(context.Background(), catalogParentID, catalogName, catalogCode)
		if err != nil {
			return err
		}
		fmt.Printf("Category created: [%d] %s %s\n", c.ID, c.Code, c.Name)
		return nil
	},
}

var catalogAddGroupCmd = &cobra.Command{
	Use:   "add-group",
	Short: "Create a group under a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		g, err := st.CreateGroup(context.Background(), catalogParentID, catalogName, catalogCode)
		if err != nil {
			return err
		}
		fmt.Printf("Group created: [%d] %s %s\n", g.ID, g.Code, g.Name)
		return nil
	},
}

var catalogAddAccountCmd = &cobra.Command{
	Use:   "add-account",
	Short: "Create an account under a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		a, err := st.CreateAccount(context.Background(), catalogParentID, catalogName, catalogDesc, catalogCode)
		if err != nil {
			return err
		}
		fmt.Printf("Account created: [%d] %s %s\n", a.ID, a.Code, a.Name)
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a plan's chart of accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.ChartRows(context.Background(), catalogPlanID)
		if err != nil {
			return err
		}
		lastType, lastCategory, lastGroup := "", "", ""
		for _, r := range rows {
			if r.TypeCode != lastType {
				fmt.Printf("%s %s\n", r.TypeCode, r.TypeName)
				lastType, lastCategory, lastGroup = r.TypeCode, "", ""
			}
			if r.CategoryCode != lastCategory {
				fmt.Printf("  %s %s\n", r.CategoryCode, r.CategoryName)
				lastCategory, lastGroup = r.CategoryCode, ""
			}
			if r.GroupCode != lastGroup {
				fmt.Printf("    %s %s\n", r.GroupCode, r.GroupName)
				lastGroup = r.GroupCode
			}
			fmt.Printf("      %s %s\n", r.AccountCode, r.AccountName)
		}
		return nil
	},
}

var catalogRenumberTypeCmd = &cobra.Command{
	Use:   "renumber-type <id> <code>",
	Short: "Renumber a type, cascading to all its descendants",
	Args:  cobra.ExactArgs(2),
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

		ctx := context.Background()
		t, err := st.GetType(ctx, id)
		if err != nil {
			return err
		}
		if err := st.UpdateType(ctx, id, t.Name, args[1]); err != nil {
			return err
		}
		fmt.Printf("Type %d renumbered to %s\n", id, args[1])
		return nil
	},
}

var catalogRenameCmd = &cobra.Command{
	Use:   "rename <type|category|group|account> <id> <name>",
	Short: "Rename a taxonomy node, keeping its code and parent",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		name := args[2]
		switch args[0] {
		case "type":
			t, err := st.GetType(ctx, id)
			if err != nil {
				return err
			}
			if err := st.UpdateType(ctx, id, name, t.Code); err != nil {
				return err
			}
		case "category":
			c, err := st.GetCategory(ctx, id)
			if err != nil {
				return err
			}
			if err := st.UpdateCategory(ctx, id, name, c.Code, nil); err != nil {
				return err
			}
		case "group":
			g, err := st.GetGroup(ctx, id)
			if err != nil {
				return err
			}
			if err := st.UpdateGroup(ctx, id, name, g.Code, nil); err != nil {
				return err
			}
		case "account":
			a, err := st.GetAccount(ctx, id)
			if err != nil {
				return err
			}
			if err := st.UpdateAccount(ctx, id, name, a.Description, a.Code, nil); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown node level %q", args[0])
		}
		fmt.Printf("Renamed %s %d to %q\n", args[0], id, name)
		return nil
	},
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <type|category|group|account> <id>",
	Short: "Delete a taxonomy node with no children or postings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		switch args[0] {
		case "type":
			err = st.DeleteType(ctx, id)
		case "category":
			err = st.DeleteCategory(ctx, id)
		case "group":
			err = st.DeleteGroup(ctx, id)
		case "account":
			err = st.DeleteAccount(ctx, id)
		default:
			return fmt.Errorf("unknown node level %q", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %s %d\n", args[0], id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{catalogAddTypeCmd, catalogAddCategoryCmd, catalogAddGroupCmd, catalogAddAccountCmd} {
		c.Flags().StringVar(&catalogName, "name", "", "Node name")
		c.Flags().StringVar(&catalogCode, "code", "", "Dotted code (suggested when omitted)")
		c.MarkFlagRequired("name")
	}
	catalogAddTypeCmd.Flags().Int64Var(&catalogPlanID, "plan", 0, "Chart plan ID")
	for _, c := range []*cobra.Command{catalogAddCategoryCmd, catalogAddGroupCmd, catalogAddAccountCmd} {
		c.Flags().Int64Var(&catalogParentID, "parent", 0, "Parent node ID")
		c.MarkFlagRequired("parent")
	}
	catalogAddAccountCmd.Flags().StringVar(&catalogDesc, "description", "", "Account description")
	catalogListCmd.Flags().Int64Var(&catalogPlanID, "plan", 0, "Chart plan ID")

	catalogCmd.AddCommand(catalogAddTypeCmd, catalogAddCategoryCmd, catalogAddGroupCmd,
		catalogAddAccountCmd, catalogListCmd, catalogRenumberTypeCmd, catalogRenameCmd, catalogDeleteCmd)
	rootCmd.AddCommand(catalogCmd)
}
