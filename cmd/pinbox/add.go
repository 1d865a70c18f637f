package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAddCmd(a *app) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add pinbox entities",
	}

	var alias string
	categoryCmd := &cobra.Command{
		Use:   "category <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debug("add category", zap.String("name", args[0]), zap.String("alias", alias))
			return fmt.Errorf("add category: %w", ErrNotImplemented)
		},
	}
	categoryCmd.Flags().StringVarP(&alias, "alias", "a", "", "display name for the category")

	addCmd.AddCommand(categoryCmd)
	return addCmd
}
