package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
	"github.com/alexander-akhmetov/brewguide/internal/progress"
	"github.com/alexander-akhmetov/brewguide/internal/store"
	"github.com/alexander-akhmetov/brewguide/internal/tui"
)

type guideOptions struct {
	bean  string
	plain bool
}

func newGuideCmd(root *rootOptions) *cobra.Command {
	g := &guideOptions{}
	cmd := &cobra.Command{
		Use:   "guide [recipe-id]",
		Short: "Brew a recipe step by step",
		Long: `Start a guided brewing session. Without a recipe id the configured
default_recipe is used.

The interactive screen is used by default. With --plain, commands are read
line by line from stdin instead:
  s  start         p  pause/resume   n  next step
  b  back          f  finish early   t  show timer
  q  quit          ?  help

When the session completes, a brewing record is saved to the journal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuide(cmd, root, g, args)
		},
	}
	cmd.Flags().StringVar(&g.bean, "bean", "", "Saved bean id to brew with (default: the default_bean preference)")
	cmd.Flags().BoolVar(&g.plain, "plain", false, "Read commands from stdin instead of the interactive screen")
	return cmd
}

func runGuide(cmd *cobra.Command, root *rootOptions, g *guideOptions, args []string) error {
	e, err := loadEnv(cmd, root)
	if err != nil {
		return err
	}
	cat, err := e.catalog()
	if err != nil {
		return err
	}
	id := e.cfg.DefaultRecipe
	if len(args) > 0 {
		id = args[0]
	}
	r, err := cat.Get(id)
	if err != nil {
		return err
	}

	s, err := e.openStore()
	if err != nil {
		return err
	}
	user, err := e.ensureUser(s)
	if err != nil {
		return err
	}
	if g.bean == "" {
		if g.bean, _, err = s.Preference(store.PrefDefaultBean); err != nil {
			return err
		}
	}
	if g.bean != "" {
		if _, err := s.Bean(g.bean); err != nil {
			return fmt.Errorf("bean %s: %w", g.bean, err)
		}
	}

	logCfg := progress.Config{
		LogsDir:    e.cfg.ResolvedLogsDir(),
		RecipeID:   r.ID,
		RecipeName: r.Name,
		BeanID:     g.bean,
		Steps:      len(r.Steps),
	}
	if g.plain {
		logCfg.Writer = e.out
	}
	logger, err := progress.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	sess, err := brewSession(cmd.Context(), cmd, e, g, r, logger)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}

	completed := 0
	for _, done := range sess.CompletedFlags() {
		if done {
			completed++
		}
	}
	logger.Exit(sess.State(), sess.Elapsed(), completed, len(r.Steps))

	res, ok := sess.Result()
	if !ok {
		fmt.Fprintln(e.out, "Session ended before completion; nothing recorded.")
		return nil
	}

	rec := brewing.NewBrewingRecord(user.ID, r, g.bean, res, time.Now())
	if err := s.SaveBrewingRecord(&rec); err != nil {
		return fmt.Errorf("save brewing record: %w", err)
	}
	if _, err := s.AddExperience(domain.ExperiencePerBrew); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	fmt.Fprintf(e.out, "Brewed %s in %s (%d/%d steps).\n", r.Name, brewing.FormatElapsed(res.ActualElapsedSeconds), res.StepsCompletedCount, res.TotalSteps)
	fmt.Fprintf(e.out, "Saved brewing record %s\n", rec.ID)
	fmt.Fprintf(e.out, "Rate it with: brewguide taste %s --overall N\n", rec.ID)
	return nil
}

// brewSession runs a session to the end on the interactive screen or the
// plain stdin loop and returns it for inspection.
func brewSession(ctx context.Context, cmd *cobra.Command, e *env, g *guideOptions, r domain.Recipe, logger *progress.Logger) (*brewing.Session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	meta := brewing.MetaFor(r, g.bean)

	if g.plain {
		timer := brewing.NewTimer(e.cfg.TickInterval())
		sess, err := brewing.New(r.Steps, meta, brewing.WithScheduler(timer), brewing.WithHandler(logger.Handle))
		if err != nil {
			return nil, err
		}
		return sess, runPlain(ctx, cmd.InOrStdin(), e.out, sess, timer, logger.Handle, e.cfg.UI.HideTips)
	}

	events := tui.NewEventLog(logger.Handle)
	sess, err := brewing.New(r.Steps, meta, brewing.WithHandler(events.Handle))
	if err != nil {
		return nil, err
	}
	model := tui.NewModel(sess, r, tui.Options{
		Interval:    e.cfg.TickInterval(),
		ConfirmExit: e.cfg.UI.ConfirmExit,
		HideTips:    e.cfg.UI.HideTips,
		Events:      events,
	})
	if _, err := tui.Run(ctx, model); err != nil {
		return sess, err
	}
	return sess, nil
}
