package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/store"
)

func newRecordsCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List brewing records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			s, err := e.openStore()
			if err != nil {
				return err
			}
			recs, err := s.BrewingRecords()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(e.out, "No brewing records yet. Start one with: brewguide guide")
				return nil
			}
			fmt.Fprintf(e.out, "%-36s  %-16s  %-14s  %-6s  %-5s  %s\n", "ID", "DATE", "RECIPE", "TIME", "STEPS", "RATING")
			shown := 0
			for i := len(recs) - 1; i >= 0; i-- {
				if limit > 0 && shown >= limit {
					break
				}
				r := recs[i]
				fmt.Fprintf(e.out, "%-36s  %-16s  %-14s  %-6s  %-5s  %s\n",
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.RecipeID,
					brewing.FormatElapsed(r.Result.ActualSeconds),
					fmt.Sprintf("%d/%d", r.Result.StepsCompleted, r.Result.TotalSteps),
					stars(r.Rating))
				shown++
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show (0 for all)")
	cmd.AddCommand(newDeleteCmd(root, "brewing record", (*store.Store).DeleteBrewingRecord))
	return cmd
}

type tasteOptions struct {
	overall, aroma, flavor, acidity, body, aftertaste int
	wheel                                             map[string]int
	notes                                             string
}

func newTasteCmd(root *rootOptions) *cobra.Command {
	o := &tasteOptions{}
	cmd := &cobra.Command{
		Use:   "taste <brewing-record-id>",
		Short: "Record a tasting for a brew",
		Long: `Record tasting scores (1-5) for a brewing record. Scores that are not given
default to the overall score. Flavor wheel intensities (0-5) are set with
--wheel, e.g. --wheel fruity=4,floral=2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			s, err := e.openStore()
			if err != nil {
				return err
			}
			rec, err := o.record(args[0])
			if err != nil {
				return err
			}
			if err := s.SaveTastingRecord(&rec); err != nil {
				return err
			}
			if _, err := e.ensureUser(s); err != nil {
				return err
			}
			if _, err := s.AddExperience(domain.ExperiencePerTasting); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			fmt.Fprintf(e.out, "Saved tasting %s (overall %s)\n", rec.ID, stars(rec.OverallScore))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.overall, "overall", 0, "Overall score 1-5 (required)")
	f.IntVar(&o.aroma, "aroma", 0, "Aroma score 1-5")
	f.IntVar(&o.flavor, "flavor", 0, "Flavor score 1-5")
	f.IntVar(&o.acidity, "acidity", 0, "Acidity score 1-5")
	f.IntVar(&o.body, "body", 0, "Body score 1-5")
	f.IntVar(&o.aftertaste, "aftertaste", 0, "Aftertaste score 1-5")
	f.StringToIntVar(&o.wheel, "wheel", nil, "Flavor wheel intensities 0-5 (floral, fruity, sweet, nutty, chocolate, spicy, acidic, bitter)")
	f.StringVar(&o.notes, "notes", "", "Free-form tasting notes")
	_ = cmd.MarkFlagRequired("overall")
	return cmd
}

// record builds the tasting record, defaulting unset scores to overall.
func (o *tasteOptions) record(brewID string) (domain.TastingRecord, error) {
	orOverall := func(v int) int {
		if v == 0 {
			return o.overall
		}
		return v
	}
	rec := domain.TastingRecord{
		BrewingRecordID: brewID,
		OverallScore:    o.overall,
		AromaScore:      orOverall(o.aroma),
		FlavorScore:     orOverall(o.flavor),
		AcidityScore:    orOverall(o.acidity),
		BodyScore:       orOverall(o.body),
		AftertasteScore: orOverall(o.aftertaste),
		Notes:           o.notes,
	}
	w := &rec.FlavorWheel
	axes := map[string]*int{
		"floral": &w.Floral, "fruity": &w.Fruity, "sweet": &w.Sweet, "nutty": &w.Nutty,
		"chocolate": &w.Chocolate, "spicy": &w.Spicy, "acidic": &w.Acidic, "bitter": &w.Bitter,
	}
	for name, v := range o.wheel {
		p, ok := axes[strings.ToLower(name)]
		if !ok {
			return rec, fmt.Errorf("unknown flavor wheel axis %q", name)
		}
		*p = v
	}
	return rec, nil
}

func newTastingsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tastings",
		Short: "List tasting records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			s, err := e.openStore()
			if err != nil {
				return err
			}
			recs, err := s.TastingRecords()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(e.out, "No tastings yet. Rate a brew with: brewguide taste <record-id> --overall N")
				return nil
			}
			for i := len(recs) - 1; i >= 0; i-- {
				t := recs[i]
				fmt.Fprintf(e.out, "%s  %s  brew %s  [%s]\n", t.CreatedAt.Local().Format("2006-01-02 15:04"), stars(t.OverallScore), t.BrewingRecordID, t.ID)
				fmt.Fprintf(e.out, "    aroma %d  flavor %d  acidity %d  body %d  aftertaste %d\n",
					t.AromaScore, t.FlavorScore, t.AcidityScore, t.BodyScore, t.AftertasteScore)
				if t.Notes != "" {
					fmt.Fprintf(e.out, "    %s\n", t.Notes)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(newDeleteCmd(root, "tasting", (*store.Store).DeleteTastingRecord))
	return cmd
}

// newDeleteCmd builds an "rm <id>" subcommand for one kind of journal entry.
func newDeleteCmd(root *rootOptions, kind string, remove func(*store.Store, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, s, err := openJournal(cmd, root)
			if err != nil {
				return err
			}
			if err := remove(s, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted %s %s\n", kind, args[0])
			return nil
		},
	}
}

func newProfileCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your barista profile and journal statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(cmd, root)
			if err != nil {
				return err
			}
			s, err := e.openStore()
			if err != nil {
				return err
			}
			u, err := e.ensureUser(s)
			if err != nil {
				return err
			}
			st, err := s.Stats()
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s  (%s)\n", u.Username, u.Level)
			fmt.Fprintf(e.out, "Experience: %d/%d\n", u.Experience, domain.ExperienceGoal)
			fmt.Fprintf(e.out, "Brews:      %d\n", st.BrewCount)
			fmt.Fprintf(e.out, "Tastings:   %d\n", st.TastingCount)
			fmt.Fprintf(e.out, "Beans:      %d\n", st.BeanCount)
			fmt.Fprintf(e.out, "Brew time:  %s\n", brewing.FormatElapsed(st.TotalBrewSeconds))
			if st.TastingCount > 0 {
				fmt.Fprintf(e.out, "Avg score:  %.1f\n", st.AverageOverall)
			}
			if st.FavoriteRecipe != "" {
				fmt.Fprintf(e.out, "Favorite:   %s\n", st.FavoriteRecipe)
			}
			return nil
		},
	}
}

func stars(n int) string {
	if n <= 0 {
		return "-"
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", max(domain.MaxScore-n, 0))
}
