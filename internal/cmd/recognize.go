package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/recognize"
)

func newRecognizeCmd(root *rootOptions) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "recognize <image>",
		Short: "Identify coffee beans from a photo",
		Long: `Identify coffee beans from a jpg or png photo (up to 5 MiB) and suggest
recipes for them. With --save the bean is added to the journal so it can be
used with 'brewguide guide --bean'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			if err := recognize.CheckImage(args[0]); err != nil {
				return err
			}

			rec := recognize.New(recognize.Config{
				MinDelay: time.Duration(e.cfg.Recognition.MinDelayMS) * time.Millisecond,
				MaxDelay: time.Duration(e.cfg.Recognition.MaxDelayMS) * time.Millisecond,
			})
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			fmt.Fprintln(e.out, "Analyzing beans...")
			res, err := rec.Recognize(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "\n%s (%.0f%% confidence)\n", res.BeanType, res.Confidence*100)
			fmt.Fprintf(e.out, "  Origin:     %s\n", res.Origin)
			fmt.Fprintf(e.out, "  Roast:      %s\n", res.RoastLevel)
			fmt.Fprintf(e.out, "  Process:    %s\n", res.ProcessingMethod)
			p := res.FlavorProfile
			fmt.Fprintf(e.out, "  Acidity %d  Body %d  Sweetness %d  Bitterness %d  Aftertaste %d\n",
				p.Acidity, p.Body, p.Sweetness, p.Bitterness, p.Aftertaste)
			var notes []string
			for _, n := range slices.Concat(p.Aroma, p.Flavor) {
				notes = append(notes, n.Name)
			}
			fmt.Fprintf(e.out, "  Notes:      %s\n", strings.Join(notes, ", "))
			fmt.Fprintf(e.out, "  %s\n", recognize.Describe(p))

			fmt.Fprintln(e.out, "\nRecommended:")
			for _, r := range res.RecommendedBrewing {
				fmt.Fprintf(e.out, "  %-14s %d g / %d ml at %d °C, %s\n",
					r.ID, r.Parameters.CoffeeGrams, r.Parameters.WaterML, r.Parameters.WaterTempC, r.Parameters.GrindSize)
			}

			if !save {
				return nil
			}
			s, err := e.openStore()
			if err != nil {
				return err
			}
			bean := recognize.BeanFromResult(res)
			if err := s.SaveBean(&bean); err != nil {
				return fmt.Errorf("save bean: %w", err)
			}
			fmt.Fprintf(e.out, "\nSaved bean %s\n", bean.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Save the recognized bean to the journal")
	return cmd
}
