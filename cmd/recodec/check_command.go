package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recodec/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [directory]",
		Short: "Check that ffmpeg, ffprobe and the selected encoder are available",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			results := preflight.RunAll(cmd.Context(), cfg, dir)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil, isTerminal(out)))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return &exitError{code: exitFatal, msg: fmt.Sprintf("%d check(s) failed", len(failed))}
			}
			return nil
		},
	}
}
