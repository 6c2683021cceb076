package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/store"
)

func newBeansCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beans",
		Short: "List saved coffee beans",
		Long: `List the beans saved with "brewguide recognize --save". Pass a bean id to
"brewguide guide --bean", or store it as the default_bean preference.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			beans, err := s.Beans()
			if err != nil {
				return err
			}
			if len(beans) == 0 {
				fmt.Fprintln(e.out, "No beans saved yet. Add one with: brewguide recognize <image> --save")
				return nil
			}
			def, _, err := s.Preference(store.PrefDefaultBean)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "  %-36s  %-24s  %-12s  %s\n", "ID", "NAME", "ORIGIN", "ROAST")
			for _, b := range beans {
				marker := " "
				if b.ID == def {
					marker = "*"
				}
				fmt.Fprintf(e.out, "%s %-36s  %-24s  %-12s  %s\n", marker, b.ID, b.Name, b.Origin, b.RoastLevel)
			}
			return nil
		},
	}
	cmd.AddCommand(newDeleteCmd(root, "bean", (*store.Store).DeleteBean))
	return cmd
}
