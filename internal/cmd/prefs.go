package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/store"
)

func newPrefsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change saved preferences",
		Long: `Preferences are free-form name/value pairs kept in the journal and
carried by export and import. Known names:
  ` + store.PrefDefaultBean + `   bean id used by "brewguide guide" when --bean is not given`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			prefs, err := s.Preferences()
			if err != nil {
				return err
			}
			if len(prefs) == 0 {
				fmt.Fprintln(e.out, "No preferences set.")
				return nil
			}
			names := make([]string, 0, len(prefs))
			for name := range prefs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(e.out, "%s = %s\n", name, prefs[name])
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <name>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			v, ok, err := s.Preference(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("preference %s: %w", args[0], store.ErrNotFound)
			}
			fmt.Fprintln(e.out, v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Set a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			if args[0] == store.PrefDefaultBean {
				if _, err := s.Bean(args[1]); err != nil {
					return fmt.Errorf("bean %s: %w", args[1], err)
				}
			}
			if err := s.SetPreference(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <name>",
		Short: "Remove a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			return s.UnsetPreference(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Remove all preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			if err := s.ResetPreferences(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Preferences cleared.")
			return nil
		},
	})
	return cmd
}
