package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"portfolio-ai/internal/contextutil"
	"portfolio-ai/internal/notebook"
	"portfolio-ai/internal/present"
)

// Output formats.
const (
	formatHTML = "html"
	formatJSON = "json"
	formatText = "text"
)

type renderOptions struct {
	format  string
	root    string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nbrender",
		Short:        "Render notebook documents",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render REF",
		Short: "Render a notebook reference",
		Long: `Fetches a notebook by reference and writes it in the chosen format.

REF is either an http(s) URL or a slash-rooted path resolved against --root,
for example /notebooks/analysis.ipynb.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: html, json or text")
	cmd.Flags().StringVar(&opts.root, "root", ".", "directory that local references resolve against")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for remote references (0 disables)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log state transitions to stderr")
	return cmd
}

type jsonOutput struct {
	Ref     string           `json:"ref"`
	Status  notebook.Status  `json:"status"`
	Reason  notebook.Reason  `json:"reason,omitempty"`
	Message string           `json:"message,omitempty"`
	Blocks  []notebook.Block `json:"blocks"`
}

func runRender(ctx context.Context, stdout, stderr io.Writer, ref string, opts renderOptions) error {
	switch opts.format {
	case formatHTML, formatJSON, formatText:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	ctx = contextutil.WithLogger(ctx, logger)

	fetcher := &notebook.RouteFetcher{
		Remote: notebook.NewHTTPFetcher(opts.timeout),
		Local:  notebook.NewDirFetcher(os.DirFS(opts.root)),
	}
	viewer := notebook.NewViewer(fetcher,
		notebook.WithLogger(logger),
		notebook.WithObserver(func(st notebook.State) {
			logger.Debug("viewer state", "ref", st.Ref, "status", st.Status)
		}),
	)
	defer viewer.Close()

	st := viewer.Load(ctx, ref)
	if st.Status == notebook.StatusFailed {
		logger.DebugContext(ctx, "render failed", "ref", ref, "reason", st.Reason, "error", st.Err)
		return errors.New(st.Message())
	}
	if st.Status != notebook.StatusReady {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("notebook %s did not finish loading: %w", ref, err)
		}
		return fmt.Errorf("notebook %s did not finish loading", ref)
	}

	switch opts.format {
	case formatJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			Ref:     st.Ref,
			Status:  st.Status,
			Reason:  st.Reason,
			Message: st.Message(),
			Blocks:  slices.Collect(st.Blocks()),
		})
	case formatHTML:
		return present.New().RenderState(stdout, st, present.Page{Title: path.Base(st.Ref)})
	default:
		return present.RenderText(stdout, st)
	}
}
