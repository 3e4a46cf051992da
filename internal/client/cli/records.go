package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/datavault/internal/client/api"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRecordsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record", "rec"},
		Short:   "Manage vault records",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return a.requireSession()
		},
	}
	cmd.AddCommand(
		newRecordsListCmd(a),
		newRecordsGetCmd(a),
		newRecordsAddCmd(a),
		newRecordsDeleteCmd(a),
		newRecordsResetCmd(a),
	)
	return cmd
}

func newRecordsListCmd(a *App) *cobra.Command {
	var q api.RecordQuery
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.api.Records(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printRecords(a.out, p)
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.CategoryID, "category", "", "only records in this category id")
	f.BoolVarP(&q.FavoritesOnly, "favorites", "f", false, "only favorites")
	f.StringVar(&q.Search, "search", "", "substring of title, description or tags")
	f.IntVarP(&q.Page, "page", "p", 0, "page number")
	f.IntVar(&q.PerPage, "per-page", 0, "records per page (max 100)")
	return cmd
}

func newRecordsGetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Aliases: []string{"show"},
		Short:   "Show a record with its decrypted data",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.api.Record(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printRecord(a.out, r)
		},
	}
}

func newRecordsAddCmd(a *App) *cobra.Command {
	var (
		in          models.RecordInput
		dataType    string
		description string
		categoryID  string
		favorite    bool
		dataFile    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new record",
		Long: `Stores a new record. The secret data is prompted for without echo unless
--data-file is given; use --data-file - to read it from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if in.Title, err = a.valueOr(in.Title, "Title: "); err != nil {
				return err
			}
			in.DataType = models.DataType(dataType)

			f := cmd.Flags()
			if f.Changed("description") {
				in.Description = &description
			}
			if categoryID != "" {
				in.CategoryID = &categoryID
			}
			if f.Changed("favorite") {
				in.IsFavorite = &favorite
			}
			if in.Data, err = a.recordData(dataFile); err != nil {
				return err
			}

			r, err := a.api.CreateRecord(cmd.Context(), in)
			if err != nil {
				return err
			}
			success(a.out, "Stored %s (%s)", color.YellowString(r.Title), r.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.Title, "title", "t", "", "record title")
	f.StringVar(&dataType, "type", string(models.DataTypePassword), "one of: "+models.DataTypeList())
	f.StringVarP(&description, "description", "d", "", "free-form description")
	f.StringVar(&categoryID, "category", "", "category id")
	f.StringSliceVar(&in.Tags, "tag", nil, "tag, repeatable or comma separated")
	f.BoolVar(&favorite, "favorite", false, "mark as favorite")
	f.StringVar(&dataFile, "data-file", "", "read the secret data from a file")
	return cmd
}

// recordData returns the payload of a new record from path ("-" is stdin)
// or from a no-echo prompt.
func (a *App) recordData(path string) (string, error) {
	switch path {
	case "":
		return a.secret("Secret data: ")
	case "-":
		s, err := a.readAllInput()
		return strings.TrimRight(s, "\r\n"), err
	default:
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read data file: %w", err)
		}
		return strings.TrimRight(string(b), "\r\n"), nil
	}
}

func newRecordsDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteRecord(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(a.out, "Deleted record %s", args[0])
			return nil
		},
	}
}

func newRecordsResetCmd(a *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record in the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				warn(a.errOut, "This permanently deletes every record in your vault.")
				answer, err := a.prompt("Type 'yes' to continue: ")
				if err != nil {
					return err
				}
				if answer != "yes" {
					fmt.Fprintln(a.out, "Aborted.")
					return nil
				}
			}

			n, err := a.api.Reset(cmd.Context())
			if err != nil {
				return err
			}
			success(a.out, "Vault reset, %d records deleted", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newSearchCmd(a *App) *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, descriptions and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			p, err := a.api.Search(cmd.Context(), args[0], page, perPage)
			if err != nil {
				return err
			}
			return printRecords(a.out, p)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "records per page (max 100)")
	return cmd
}
