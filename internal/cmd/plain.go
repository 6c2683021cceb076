package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alexander-akhmetov/brewguide/internal/brewing"
	"github.com/alexander-akhmetov/brewguide/internal/debug"
	"github.com/alexander-akhmetov/brewguide/internal/event"
	"github.com/alexander-akhmetov/brewguide/internal/recipe"
)

const plainHelp = `commands: s start, p pause/resume, n next, b back, f finish, t timer, q quit`

// runPlain drives sess from line commands on in until it completes, the
// user quits, in is exhausted, or ctx is cancelled. It is the single owner
// of sess: commands and timer ticks are handled on this goroutine.
func runPlain(ctx context.Context, in io.Reader, out io.Writer, sess *brewing.Session, timer *brewing.Timer, notify event.Handler, hideTips bool) error {
	defer timer.Stop()
	defer sess.Close()

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-done:
				return
			}
		}
	}()

	fmt.Fprintln(out, plainHelp)
	printStep(out, sess, hideTips)

	stepIndex, stepStart := sess.CurrentIndex(), 0
	for sess.State() != brewing.StateCompleted {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case tag := <-timer.C():
			if !sess.Tick(tag) {
				continue
			}
			if sess.TargetReached(stepStart) {
				notify(brewing.TargetNote(sess.CurrentStep()))
			}

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			var err error
			switch strings.ToLower(line) {
			case "s", "start":
				err = sess.Start()
			case "p", "pause", "resume":
				err = sess.TogglePause()
			case "n", "next":
				err = sess.Advance()
			case "b", "back":
				err = sess.Retreat()
			case "f", "finish":
				err = sess.Complete()
			case "t", "timer":
				fmt.Fprintf(out, "%s  step %d/%d  %s\n", sess.FormattedElapsed(), sess.CurrentIndex()+1, len(sess.Steps()), sess.State())
			case "q", "quit":
				return nil
			case "?", "h", "help":
				fmt.Fprintln(out, plainHelp)
			case "":
			default:
				fmt.Fprintf(out, "unknown command %q (? for help)\n", line)
			}
			if err != nil {
				debug.Logf("plain: %s: %v", line, err)
			}
			if idx := sess.CurrentIndex(); idx != stepIndex && sess.State() != brewing.StateCompleted {
				stepIndex, stepStart = idx, sess.Elapsed()
				printStep(out, sess, hideTips)
			}
		}
	}
	return nil
}

func printStep(out io.Writer, sess *brewing.Session, hideTips bool) {
	step := sess.CurrentStep()
	fmt.Fprintf(out, "\n== %d/%d %s ==\n%s\n", sess.CurrentIndex()+1, len(sess.Steps()), step.Title, step.Instruction)
	if targets := recipe.StepTargets(step); targets != "" {
		fmt.Fprintf(out, "   %s\n", targets)
	}
	if step.Tips != "" && !hideTips {
		fmt.Fprintf(out, "   tip: %s\n", step.Tips)
	}
	if next, ok := sess.NextStep(); ok {
		fmt.Fprintf(out, "   next: %s\n", next.Title)
	}
}
