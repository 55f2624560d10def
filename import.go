package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/amsterdam/internal/auth"
	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/envstore"
	"github.com/debemdeboas/amsterdam/internal/importer"
	"github.com/debemdeboas/amsterdam/internal/model"
	"github.com/debemdeboas/amsterdam/internal/plume"
)

var summaryStyle = lipgloss.NewStyle().Bold(true)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "md FILE...",
		Short: "Publish Markdown files as posts",
		Long: `Parse each file's front matter and publish it as a post.

A file must start its header with a line of dashes, list "field: value" lines
(title, subtitle, tags, date, license, published) and close the header with a
line that has no colon. Everything after that is the post body.

On first use the instance domain, a username and a password are asked for.
The API client and token obtained are stored in the env file and reused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args)
		},
	}
}

func (a *app) runImport(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()

	store, err := envstore.Open(a.settings.EnvFile, a.lookupEnv)
	if err != nil {
		return err
	}

	bootstrapper := auth.NewBootstrapper(
		store,
		auth.NewTerminalPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		func(domain string) auth.API { return a.client(domain) },
		plume.AppRegistration{Name: a.settings.App.Name, Website: a.settings.App.Website},
	)
	creds, err := bootstrapper.Ensure(ctx)
	if err != nil {
		return err
	}

	opts := []importer.Option{
		importer.WithLogger(a.logger),
		importer.WithOutput(cmd.OutOrStdout()),
	}

	journal, closeJournal, err := a.openJournal()
	defer closeJournal()
	if err != nil {
		a.logger.Warn().Err(fmt.Errorf(config.ErrInitializeJournalFmt, err)).Msg("Continuing without the import journal")
	} else if journal != nil {
		opts = append(opts, importer.WithJournal(journal))
	}

	im := importer.New(a.client(creds.InstanceDomain), creds.BearerToken, opts...)
	summary := im.ImportFiles(ctx, paths)

	failed := len(summary.Results) - summary.Count(model.StatusPublished) - summary.Count(model.StatusSkipped)
	fmt.Fprintln(cmd.OutOrStdout(), summaryStyle.Render(fmt.Sprintf(
		"%d published, %d skipped, %d failed",
		summary.Count(model.StatusPublished), summary.Count(model.StatusSkipped), failed,
	)))

	if err := ctx.Err(); err != nil {
		return err
	}
	if summary.Failed() {
		return errors.New("some files were not imported")
	}
	return nil
}
