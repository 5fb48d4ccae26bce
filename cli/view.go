package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/apf/potential"
	"github.com/katalvlaran/apf/render"
	"github.com/katalvlaran/apf/scenario"
)

func newViewCommand() *cobra.Command {
	var (
		stride int
		delay  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "view SCENARIO",
		Short: "Plan a scenario and draw the field and path in the terminal (r re-plans, q quits)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			p, err := newPlanner(cmd, cfg, s, delay)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			return runView(cmd.Context(), screen, p, s.Radius(cfg.Planner.GoalRadius), stride)
		},
	}
	cmd.Flags().IntVar(&stride, "stride", 4, "draw a field arrow on every n-th cell")
	cmd.Flags().DurationVar(&delay, "step-delay", 0, "pause between moving steps (overrides planner.step_delay)")

	return cmd
}

// runView drives an initialised screen until the user quits or ctx ends.
// It owns the screen and finalises it on return.
func runView(ctx context.Context, screen tcell.Screen, p *potential.Planner, radius float64, stride int) error {
	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	polled := make(chan struct{})
	go func() {
		defer close(polled)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer func() {
		close(quit)
		screen.Fini()
		<-polled
	}()

	results := make(chan runResult, 1)
	running := false
	plan := func() {
		running = true
		status(screen, "planning...")
		go func() {
			res, err := p.Start(ctx)
			results <- runResult{res: res, err: err}
		}()
	}
	var last runResult
	redraw := func() {
		screen.Clear()
		start, goal := p.Poses()
		if !running {
			render.Draw(screen, render.Frame{
				Field:      p.Field(),
				Stride:     stride,
				Obstacles:  p.Obstacles(),
				Path:       last.res.Path,
				Start:      start,
				Goal:       goal,
				GoalRadius: radius,
			})
			msg := fmt.Sprintf("%s  steps=%d stuck=%d  [r] re-plan  [q] quit", last.res.State, last.res.Steps, last.res.StuckCount)
			if last.err != nil {
				msg = "error: " + last.err.Error()
			}
			status(screen, msg)
		} else {
			status(screen, "planning...")
		}
		screen.Show()
	}

	plan()
	redraw()
	for {
		select {
		case <-ctx.Done():
			if running {
				p.Invalidate()
				<-results
			}
			return nil
		case last = <-results:
			running = false
			redraw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				redraw()
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
					ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					if running {
						p.Invalidate()
						<-results
					}
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'r' && !running:
					plan()
					redraw()
				}
			}
		}
	}
}

// status writes msg on the bottom row.
func status(screen tcell.Screen, msg string) {
	w, h := screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range msg {
		if x >= w {
			break
		}
		screen.SetContent(x, h-1, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		screen.SetContent(x, h-1, ' ', nil, style)
	}
}
