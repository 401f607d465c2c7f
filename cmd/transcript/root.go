package main

import (
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/transcript-viewer/internal/config"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/export"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/workflow"
)

// cliVisitor is the visitor id analytics would see for terminal lookups.
const cliVisitor = "cli"

// commandContext carries the persistent flags to subcommands.
type commandContext struct {
	origin    string
	apiOrigin string
	timeout   time.Duration
	verbose   bool
	clipboard export.Clipboard
}

func (c *commandContext) parsedOrigin() config.Origin {
	return config.ParseOrigin(c.origin)
}

func (c *commandContext) controller() (*workflow.Controller, error) {
	return workflow.Build(c.parsedOrigin(), c.apiOrigin, c.timeout, nil, cliVisitor)
}

func (c *commandContext) client() (*transcript.Client, error) {
	return workflow.NewClient(c.parsedOrigin(), c.apiOrigin, c.timeout)
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(export.SystemClipboard{})
}

func newRootCommandWith(cb export.Clipboard) *cobra.Command {
	ctx := &commandContext{clipboard: cb}

	rootCmd := &cobra.Command{
		Use:           "transcript",
		Short:         "Fetch YouTube transcripts from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// The workflow logs with the standard logger; keep it quiet unless asked.
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			if ctx.verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.origin, "origin", "localhost", "Origin the viewer is served from (file://, localhost, or a hostname)")
	rootCmd.PersistentFlags().StringVar(&ctx.apiOrigin, "api-origin", "", "Origin relative API endpoints resolve against")
	rootCmd.PersistentFlags().DurationVar(&ctx.timeout, "timeout", 60*time.Second, "Backend request timeout")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log workflow progress to stderr")

	rootCmd.AddCommand(newGetCommand(ctx))
	rootCmd.AddCommand(newLanguagesCommand(ctx))

	return rootCmd
}
