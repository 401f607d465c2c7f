package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var language string
	var downloadDir string
	var copyText bool
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <youtube-url>",
		Short: "Fetch and print a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := ctx.controller()
			if err != nil {
				return err
			}
			if language != "" {
				ctrl.Prefer(language)
			}

			snap, err := ctrl.Submit(cmd.Context(), args[0])
			if err != nil {
				if msg := snap.Error; msg != "" {
					return errors.New(msg)
				}
				return err
			}

			stdout := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()
			colorize := shouldColorize(stdout)

			if snap.Notice != "" {
				fmt.Fprintln(stderr, snap.Notice)
			}
			if language != "" && snap.CurrentLanguage != language {
				fmt.Fprintf(stderr, "Language %q is not available; showing %s\n", language, describeLanguage(snap.CurrentLanguage))
			}
			if len(snap.Languages) > 0 {
				fmt.Fprintf(stderr, "Language: %s\n", languageLabel(snap.Languages, snap.CurrentLanguage))
			}

			if raw {
				fmt.Fprintln(stdout, strings.TrimRight(snap.Transcript, "\n"))
			} else {
				renderParagraphs(stdout, snap.Paragraphs, colorize)
			}

			if copyText {
				if err := ctrl.Copy(ctx.clipboard); err != nil {
					fmt.Fprintf(stderr, "Copy failed: %v\n", err)
				} else {
					fmt.Fprintln(stderr, "Copied transcript to clipboard")
				}
			}

			if downloadDir != "" {
				f, err := ctrl.Download()
				if err != nil {
					return err
				}
				path, err := f.SaveTo(downloadDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(stderr, "Saved %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Preferred language code")
	cmd.Flags().StringVarP(&downloadDir, "download", "d", "", "Save the transcript into this directory")
	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the transcript to the clipboard")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the backend text without formatting")

	return cmd
}

func describeLanguage(code string) string {
	if code == "" {
		return "the default transcript"
	}
	return fmt.Sprintf("%q", code)
}
