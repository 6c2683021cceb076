package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/recipe"
)

func newRecipesCmd(root *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List brewing recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			cat, err := e.catalog()
			if err != nil {
				return err
			}
			list := cat.ByCategory(category)
			if len(list) == 0 {
				fmt.Fprintf(e.out, "No recipes in category %q.\n", category)
				return nil
			}
			fmt.Fprintf(e.out, "%-16s %-24s %-12s %-10s %s\n", "ID", "NAME", "CATEGORY", "DIFFICULTY", "TIME")
			for _, r := range list {
				fmt.Fprintf(e.out, "%-16s %-24s %-12s %-10s %s\n",
					r.ID, r.Name, r.Category,
					strings.Repeat("★", r.Difficulty),
					brewing.FormatElapsed(r.Parameters.BrewSeconds))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Only show recipes in this category")
	return cmd
}

func newRecipeCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Inspect recipes",
	}
	cmd.AddCommand(newRecipeShowCmd(root), newRecipeDiffCmd(root))
	return cmd
}

func newRecipeShowCmd(root *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe with its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			cat, err := e.catalog()
			if err != nil {
				return err
			}
			r, err := cat.Get(args[0])
			if err != nil {
				return err
			}

			md := recipe.Markdown(r)
			if raw {
				fmt.Fprint(e.out, md)
				return nil
			}
			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			out, err := renderer.Render(md)
			if err != nil {
				return fmt.Errorf("render recipe: %w", err)
			}
			fmt.Fprint(e.out, out)
			if src := cat.Source(r.ID); src != "embedded" {
				fmt.Fprintf(e.out, "Source: %s\n", src)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without rendering")
	return cmd
}

func newRecipeDiffCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <recipe-a> <recipe-b>",
		Short: "Show a unified diff between two recipes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			cat, err := e.catalog()
			if err != nil {
				return err
			}
			a, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			b, err := cat.Get(args[1])
			if err != nil {
				return err
			}
			d, err := recipe.Diff(a, b)
			if err != nil {
				return err
			}
			if d == "" {
				fmt.Fprintln(e.out, "Recipes are identical.")
				return nil
			}
			fmt.Fprint(e.out, d)
			return nil
		},
	}
}
