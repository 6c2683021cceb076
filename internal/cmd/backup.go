package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the whole journal as JSON",
		Long:  "Export the journal (profile, records, beans and preferences) to a file, or to stdout when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			data, err := s.Export(time.Now())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err := e.out.Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(e.out, "Exported journal to %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(root *rootOptions) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a journal written by export",
		Long: `Import a journal export. Each section in the file overwrites the stored
one; sections missing from the file are kept unless --replace is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			keys, err := s.Import(data, replace)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(e.out, "Imported %d sections from %s\n", len(keys), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "Drop everything not present in the file")
	return cmd
}
