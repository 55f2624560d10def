package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/amsterdam/internal/auth"
	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/db"
	"github.com/debemdeboas/amsterdam/internal/envstore"
	"github.com/debemdeboas/amsterdam/internal/frontmatter"
	"github.com/debemdeboas/amsterdam/internal/logger"
	"github.com/debemdeboas/amsterdam/internal/plume"
	"github.com/debemdeboas/amsterdam/internal/repository"
)

// app is what every subcommand shares once settings are loaded.
type app struct {
	lookupEnv envstore.LookupFunc

	settings *config.Config
	logger   zerolog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "amsterdam",
		Short:         "Import Markdown documents into a Plume instance",
		Long:          `Amsterdam publishes Markdown files with a dash-delimited front matter header as posts on a Plume blog.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.AddCommand(newImportCmd(a), newPreviewCmd(a), newHistoryCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path := config.DefaultSettingsPath
	if p, ok := a.lookupEnv(config.EnvSettingsPath); ok && p != "" {
		path = p
	}

	settings, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	a.settings = settings

	a.logger = logger.New(settings.Logging.Level, cmd.ErrOrStderr())
	config.SetLogger(a.logger)
	db.SetLogger(a.logger)
	repository.SetLogger(a.logger)
	frontmatter.SetLogger(a.logger)
	auth.SetLogger(a.logger)

	a.logger.Debug().Str("settings", path).Msg("Settings loaded")

	return nil
}

func (a *app) client(domain string) *plume.Client {
	return plume.NewClient(plume.ClientConfig{
		Scheme:             a.settings.API.Scheme,
		Domain:             domain,
		Timeout:            time.Duration(a.settings.API.TimeoutSeconds) * time.Second,
		InsecureSkipVerify: a.settings.API.InsecureSkipVerify,
		Logger:             a.logger,
	})
}

// openJournal returns nil when the journal is disabled.
func (a *app) openJournal() (*repository.DBJournalRepository, func(), error) {
	if !a.settings.Journal.Enabled {
		return nil, func() {}, nil
	}

	database := db.NewSQLite(a.settings.Journal.Path)
	if err := database.InitDB(); err != nil {
		database.Close()
		return nil, func() {}, err
	}

	return repository.NewDBJournalRepository(database), func() { database.Close() }, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(&app{lookupEnv: os.LookupEnv})
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
