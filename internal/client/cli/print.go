package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/datavault/internal/client/api"
	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.GreenString("✓")+" "+fmt.Sprintf(format, args...))
}

func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.YellowString("!")+" "+fmt.Sprintf(format, args...))
}

func hint(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.CyanString("→")+" "+fmt.Sprintf(format, args...))
}

// printError renders err for the user, with a hint when there is an
// obvious next step.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, color.RedString("✗")+" "+errorHeadline(err))

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		for _, m := range apiErr.FieldMessages() {
			fmt.Fprintln(w, "  - "+m)
		}
	}

	switch {
	case errors.Is(err, api.ErrNotLoggedIn):
		hint(w, "Run %s first", color.YellowString("vaultctl login"))
	case errors.Is(err, common.ErrorUnauthorized):
		hint(w, "Your session has expired, run %s", color.YellowString("vaultctl login"))
	case errors.Is(err, common.ErrorSnapshotsDisabled):
		hint(w, "The server has no object storage configured, use %s without --snapshot", color.YellowString("vaultctl export"))
	}
}

func errorHeadline(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printCategories(w io.Writer, cats []models.Category) error {
	if len(cats) == 0 {
		fmt.Fprintln(w, faint("No categories."))
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tRECORDS\tCOLOR\tICON")
	for _, c := range cats {
		var n int64
		if c.RecordsCount != nil {
			n = *c.RecordsCount
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", c.ID, c.Name, n, c.Color, c.Icon)
	}
	return tw.Flush()
}

func printRecords(w io.Writer, p *models.Page[models.Record]) error {
	if len(p.Items) == 0 {
		fmt.Fprintln(w, faint("No records."))
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tCATEGORY\tTAGS\tFAV")
	for _, r := range p.Items {
		fav := ""
		if r.IsFavorite {
			fav = yellow("★")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Title, r.DataType, categoryName(r), strings.Join(r.Tags, ","), fav)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, faint(fmt.Sprintf("Page %d of %d (%d records)", p.CurrentPage, p.LastPage, p.Total)))
	return nil
}

func printRecord(w io.Writer, r *models.Record) error {
	tw := newTable(w)
	row := func(k, v string) { fmt.Fprintf(tw, "%s\t%s\n", bold(k), v) }
	row("ID:", r.ID)
	row("Title:", r.Title)
	row("Type:", string(r.DataType))
	row("Category:", categoryName(*r))
	row("Tags:", strings.Join(r.Tags, ", "))
	row("Favorite:", yesNo(r.IsFavorite))
	if r.Description != nil {
		row("Description:", *r.Description)
	}
	row("Created:", r.CreatedAt.Local().Format(time.DateTime))
	row("Updated:", r.UpdatedAt.Local().Format(time.DateTime))
	if err := tw.Flush(); err != nil {
		return err
	}
	if r.Plaintext != nil {
		fmt.Fprintln(w, bold("Data:"))
		fmt.Fprintln(w, *r.Plaintext)
	}
	return nil
}

func categoryName(r models.Record) string {
	if r.Category != nil {
		return r.Category.Name
	}
	return "-"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
