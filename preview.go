package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/amsterdam/internal/frontmatter"
	"github.com/debemdeboas/amsterdam/internal/importer"
	"github.com/debemdeboas/amsterdam/internal/render"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview FILE...",
		Short: "Show how files would be imported, without publishing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPreview(cmd, args)
		},
	}
}

func (a *app) runPreview(cmd *cobra.Command, paths []string) error {
	opts := render.Options{
		Style:     a.settings.Preview.Style,
		Highlight: a.settings.Preview.Highlight,
	}
	if opts.Highlight && !render.KnownStyle(opts.Style) {
		a.logger.Warn().Str("style", opts.Style).Msg("Unknown preview style, using the fallback")
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range paths {
		if err := previewFile(out, path, opts); err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		}
	}

	if failed > 0 {
		return errors.New("some files could not be previewed")
	}
	return nil
}

func previewFile(out io.Writer, path string, opts render.Options) error {
	info, err := os.Stat(path)
	if err != nil {
		return &importer.FileAccessError{Path: path, Err: err}
	}
	if info.IsDir() {
		return &importer.FileAccessError{Path: path, Err: errors.New("is a directory")}
	}

	f, err := os.Open(path)
	if err != nil {
		return &importer.FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	draft, err := frontmatter.Parse(path, f)
	if err != nil {
		return err
	}

	return render.Preview(out, path, draft, opts)
}
