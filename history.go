package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/amsterdam/internal/model"
)

const shortIDLength = 8

var (
	historyHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	historyCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	statusStyles       = map[model.ImportStatus]lipgloss.Style{
		model.StatusPublished: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		model.StatusSkipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		model.StatusRejected:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.StatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [ID]",
		Short: "List past imports, or show the archived source of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.settings.Journal.Enabled {
				return errors.New("the import journal is disabled in the settings")
			}

			journal, closeJournal, err := a.openJournal()
			defer closeJournal()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				rec, err := journal.GetByPrefix(args[0])
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), rec)
			}

			records, err := journal.List(limit)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to list, 0 for all")

	return cmd
}

func printHistory(w io.Writer, records []model.ImportRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No imports recorded yet.")
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		post := ""
		if rec.RemoteID != 0 {
			post = strconv.FormatInt(rec.RemoteID, 10)
		}
		rows = append(rows, []string{
			shortID(rec.ID),
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(rec.Status),
			post,
			rec.Path,
			rec.Title,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "WHEN", "STATUS", "POST", "PATH", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return historyHeaderStyle
			}
			if col == 2 && row >= 0 && row < len(records) {
				if s, ok := statusStyles[records[row].Status]; ok {
					return s.Padding(0, 1)
				}
			}
			return historyCellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printRecord(w io.Writer, rec *model.ImportRecord) error {
	fmt.Fprintf(w, "id:      %s\n", rec.ID)
	fmt.Fprintf(w, "path:    %s\n", rec.Path)
	fmt.Fprintf(w, "when:    %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "status:  %s\n", rec.Status)
	if rec.Title != "" {
		fmt.Fprintf(w, "title:   %s\n", rec.Title)
	}
	if rec.RemoteID != 0 {
		fmt.Fprintf(w, "post:    %d\n", rec.RemoteID)
	}
	if rec.Message != "" {
		fmt.Fprintf(w, "message: %s\n", rec.Message)
	}
	if rec.SourceHash != "" {
		fmt.Fprintf(w, "sha256:  %s\n", rec.SourceHash)
	}
	if rec.Source == nil {
		return nil
	}

	fmt.Fprintln(w)
	_, err := w.Write(rec.Source)
	return err
}

func shortID(id model.ImportID) string {
	if len(id) <= shortIDLength {
		return string(id)
	}
	return string(id[:shortIDLength])
}
