package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/datavault/internal/common"
	"github.com/dmitrijs2005/datavault/internal/filex"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newExportCmd(a *App) *cobra.Command {
	var (
		output   string
		snapshot bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the decrypted vault as JSON",
		Long: `Exports every record, decrypted, as a JSON bundle that 'vaultctl import' accepts.

Without -o the bundle is written to stdout. With --snapshot the server uploads
the bundle to object storage and prints a short-lived download link; -o then
downloads it as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if snapshot {
				return a.exportSnapshot(cmd, output)
			}

			b, err := a.api.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if output == "" {
				_, err = fmt.Fprintln(a.out, string(data))
				return err
			}
			if err := filex.WriteFileAtomic(output, append(data, '\n'), 0o600); err != nil {
				return err
			}
			success(a.out, "Exported %d records to %s", len(b.Data), color.YellowString(output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the bundle to this file")
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "upload the bundle to the server's object storage")
	return cmd
}

func (a *App) exportSnapshot(cmd *cobra.Command, output string) error {
	s, err := a.api.Snapshot(cmd.Context())
	if errors.Is(err, common.ErrorUnavailable) {
		return fmt.Errorf("%w: %w", common.ErrorSnapshotsDisabled, err)
	}
	if err != nil {
		return err
	}
	success(a.out, "Snapshot of %d records stored as %s", s.Records, color.YellowString(s.Key))
	hint(a.out, "Download link, valid until %s:", s.ExpiresAt.Local().Format(time.DateTime))
	fmt.Fprintln(a.out, s.URL)

	if output == "" {
		return nil
	}
	body, err := a.api.Download(cmd.Context(), s.URL)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(output, body, 0o600); err != nil {
		return err
	}
	success(a.out, "Saved snapshot to %s", color.YellowString(output))
	return nil
}

func newImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import records from a JSON export",
		Long: `Imports records from a file produced by 'vaultctl export'. A bare JSON array
of records is accepted too. Rows that fail validation are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			req, err := parseImport(data)
			if err != nil {
				return err
			}

			res, err := a.api.Import(cmd.Context(), req)
			if err != nil {
				return err
			}
			success(a.out, "%s", res.Message)
			for _, e := range res.Errors {
				warn(a.out, "%s", e)
			}
			return nil
		},
	}
}

// parseImport accepts either the export envelope or a bare array of rows.
func parseImport(data []byte) (models.ImportRequest, error) {
	var req models.ImportRequest
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &req.Data); err != nil {
			return req, fmt.Errorf("parse import file: %w", err)
		}
		return req, nil
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, fmt.Errorf("parse import file: %w", err)
	}
	return req, nil
}
