package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pinbox/pinbox/internal/category"
	"github.com/pinbox/pinbox/internal/source"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	aliasStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Long: `List the categories stored in the notes repository.

The repository is cloned on first use. A repository without categories is
seeded with the defaults, which are committed and pushed to origin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.loadCategories(cmd)
			if err != nil {
				return err
			}
			printCategories(a, cats)
			return nil
		},
	}
}

// loadCategories bootstraps the working copy and reads its categories.
func (a *app) loadCategories(cmd *cobra.Command) (category.Categories, error) {
	ctx := cmd.Context()

	repo, _, err := source.NewBootstrapper(a.dirs, a.store, a.logger).EnsureRepository(ctx)
	if err != nil {
		return category.Categories{}, err
	}
	return source.NewSynchronizer(a.store, a.logger).GetCategories(ctx, repo)
}

func printCategories(a *app, cats category.Categories) {
	if cats.Len() == 0 {
		fmt.Fprintln(a.stdout, "No categories")
		return
	}

	width := 0
	for _, c := range cats.Categories {
		width = max(width, len(c.Name))
	}

	for _, c := range cats.Categories {
		display := c.DisplayName()
		if display == c.Name {
			fmt.Fprintln(a.stdout, nameStyle.Render(c.Name))
			continue
		}
		fmt.Fprintln(a.stdout, nameStyle.Width(width).Render(c.Name)+"  "+aliasStyle.Render(display))
	}
}
