package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage brewguide configuration",
		Long:  `View and manage brewguide configuration.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration with source annotations",
		Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/brewguide/config.yaml)
  3. BREWGUIDE_* environment variables
  4. Local config (.brewguide/config.yaml)
  5. CLI flags (highest precedence)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			return e.showConfig()
		},
	})
	return cmd
}

func (e *env) showConfig() error {
	cfg, out := e.cfg, e.out

	fmt.Fprintln(out, "# Brewguide Configuration")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(out, "  - %s\n", src)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Directories")
	fmt.Fprintf(out, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(out, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintf(out, "  Local config:  (none detected)\n")
	}
	fmt.Fprintf(out, "  Store:         %s\n", cfg.ResolvedStorePath())
	fmt.Fprintf(out, "  Logs:          %s\n", cfg.ResolvedLogsDir())
	fmt.Fprintf(out, "  Recipes:       %s\n", cfg.ResolvedRecipesDir())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Session Settings")
	fmt.Fprintf(out, "  tick_interval_ms: %d\n", cfg.TickIntervalMS)
	fmt.Fprintf(out, "  user_id:          %s\n", cfg.UserID)
	fmt.Fprintf(out, "  default_recipe:   %s\n", cfg.DefaultRecipe)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Journal Settings")
	fmt.Fprintf(out, "  auto_commit: %t\n", cfg.Journal.AutoCommit)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Recognition Settings")
	fmt.Fprintf(out, "  min_delay_ms: %d\n", cfg.Recognition.MinDelayMS)
	fmt.Fprintf(out, "  max_delay_ms: %d\n", cfg.Recognition.MaxDelayMS)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## UI Settings")
	fmt.Fprintf(out, "  confirm_exit: %t\n", cfg.UI.ConfirmExit)
	fmt.Fprintf(out, "  hide_tips:    %t\n", cfg.UI.HideTips)
	return nil
}
