package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/progress"
)

func newLogsCmd(root *rootOptions) *cobra.Command {
	var recent int
	cmd := &cobra.Command{
		Use:   "logs [recipe]",
		Short: "List session logs, or print the latest log for a recipe",
		Long: `Without arguments, list session logs newest first. Sessions that never
reached the end of their log (still running, or killed) are marked unfinished.
With a recipe id, print that recipe's most recent log.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			dir := e.cfg.ResolvedLogsDir()

			if len(args) == 1 {
				lf, err := progress.FindLatestLog(dir, args[0])
				if err != nil {
					return fmt.Errorf("find logs: %w", err)
				}
				if lf == nil {
					return fmt.Errorf("no session logs for %q in %s", args[0], dir)
				}
				data, err := os.ReadFile(lf.Path)
				if err != nil {
					return fmt.Errorf("read log: %w", err)
				}
				_, err = e.out.Write(data)
				return err
			}

			logs, err := progress.FindLogs(dir, "")
			if err != nil {
				return fmt.Errorf("find logs: %w", err)
			}
			if len(logs) == 0 {
				fmt.Fprintf(e.out, "No session logs in %s\n", dir)
				return nil
			}
			for i, lf := range logs {
				if recent > 0 && i >= recent {
					break
				}
				status := "done"
				if !lf.Finished {
					status = "unfinished"
				}
				fmt.Fprintf(e.out, "%s  %-14s  [%s]  %s\n",
					lf.Timestamp.Format("2006-01-02 15:04:05"), lf.RecipeID, status, lf.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&recent, "recent", "n", 10, "Number of logs to list (0 for all)")
	return cmd
}
