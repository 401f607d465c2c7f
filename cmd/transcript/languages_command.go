package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
	"github.com/Shimizu-Technology/transcript-viewer/internal/services/transcript"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages <youtube-url>",
		Short: "List the transcript languages a video offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			if !transcript.IsValidURL(url) {
				return errors.New(transcript.MsgInvalidURL)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}

			d := client.FetchLanguages(cmd.Context(), url)
			if d.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Language listing unavailable: %v\n", d.Err)
			}
			if d.Note != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), d.Note)
			}

			langs := models.SortLanguages(d.Languages)
			if len(langs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No languages found")
				return nil
			}

			rows := make([][]string, 0, len(langs))
			for _, l := range langs {
				kind := "auto-generated"
				if l.IsManual {
					kind = "manual"
				}
				rows = append(rows, []string{l.Code, l.DisplayName, kind})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Language", "Type"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
