package cli

import (
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage categories",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.requireSession()
		},
	}
	cmd.AddCommand(newCategoriesListCmd(a), newCategoriesAddCmd(a), newCategoriesDeleteCmd(a))
	return cmd
}

func newCategoriesListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories with their record counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.api.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return printCategories(a.out, cats)
		},
	}
}

func newCategoriesAddCmd(a *App) *cobra.Command {
	var description, colorHex, icon string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.CategoryInput{Name: args[0]}
			f := cmd.Flags()
			if f.Changed("description") {
				in.Description = &description
			}
			if f.Changed("color") {
				in.Color = &colorHex
			}
			if f.Changed("icon") {
				in.Icon = &icon
			}

			c, err := a.api.CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			success(a.out, "Created category %s (%s)", color.YellowString(c.Name), c.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-form description")
	cmd.Flags().StringVar(&colorHex, "color", "", "hex color such as #10B981")
	cmd.Flags().StringVar(&icon, "icon", "", "icon name")
	return cmd
}

func newCategoriesDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an empty category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(a.out, "Deleted category %s", args[0])
			return nil
		},
	}
}
