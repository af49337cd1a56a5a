package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/chord"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/session"
	"github.com/dshills/keychord/internal/input/when"
)

var errNotTerminal = errors.New("listen needs an interactive terminal")

// historySize is the number of resolutions kept on screen.
const historySize = 12

func newListenCmd(opts *rootOptions) *cobra.Command {
	var (
		ctxFlags []string
		accent   string
		noWatch  bool
		record   string
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Resolve keys typed in the terminal",
		Long: `Open a full-screen view that resolves every key typed against the merged
bindings and shows pending chords and recent commands. Declaration files are
watched and reloaded when they change. Press Ctrl+C to quit.

With --record, every key event is saved with its timing when listen exits, for
later use with "keychord resolve --replay".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}
			snap, err := parseContext(ctxFlags)
			if err != nil {
				return err
			}
			style, err := accentStyle(accent)
			if err != nil {
				return err
			}
			table, err := opts.build(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			store := keymap.NewStore(table)
			if !noWatch {
				if err := opts.watch(ctx, store); err != nil {
					opts.logger.Warn("not watching declaration files", "error", err)
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			resolver := input.NewResolver(store,
				input.WithConfig(input.Config{
					ChordTimeout: opts.cfg.ChordTimeout,
					Platform:     opts.cfg.Platform,
				}),
				input.WithLogger(opts.logger),
			)
			resolver.Hooks().RegisterWithOptions(input.LoggingHook{Logger: opts.logger}, "log", input.HookPriorityLowest)

			var rec *session.Recorder
			if record != "" {
				rec = session.NewRecorder(opts.cfg.Platform)
				resolver.Hooks().RegisterWithOptions(rec, session.HookName, input.HookPriorityHighest)
				rec.Start(time.Now())
			}

			l := &listener{
				screen:   screen,
				store:    store,
				resolver: resolver,
				state:    resolver.NewState(),
				platform: opts.cfg.Platform,
				snap:     snap,
				accent:   style,
			}
			runErr := l.run(ctx)
			if rec != nil {
				if err := session.Save(rec.Stop(), record); err != nil {
					return errors.Join(runErr, err)
				}
			}
			return runErr
		},
	}
	cmd.Flags().StringArrayVar(&ctxFlags, "ctx", nil, "Context key: name, !name or name=value (repeatable)")
	cmd.Flags().StringVar(&accent, "accent", "#5fafff", "Accent color as a hex triplet")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when declaration files change")
	cmd.Flags().StringVar(&record, "record", "", "Save the typed key events to this file on exit")
	return cmd
}

// watch starts a config.Watcher over the configured declaration files.
func (o *rootOptions) watch(ctx context.Context, store *keymap.Store) error {
	w, err := config.NewWatcher(store,
		func() (keymap.Sources, error) { return o.sources(ctx) },
		config.WithWatcherLogger(o.logger),
	)
	if err != nil {
		return err
	}
	for _, path := range []string{o.cfg.DefaultsFile, o.cfg.UserFile} {
		if path == "" {
			continue
		}
		if err := w.Add(path); err != nil {
			return err
		}
	}
	if o.cfg.ExtensionDir != "" {
		if err := w.AddDir(o.cfg.ExtensionDir, "*.lua"); err != nil {
			return err
		}
	}
	go func() {
		_ = w.Run(ctx)
	}()
	return nil
}

// accentStyle parses a hex color into a tcell style.
func accentStyle(hex string) (tcell.Style, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.StyleDefault, fmt.Errorf("invalid accent color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Bold(true), nil
}

type listener struct {
	screen   tcell.Screen
	store    *keymap.Store
	resolver *input.Resolver
	state    *chord.State
	platform key.Platform
	snap     when.Snapshot
	accent   tcell.Style

	history []string
}

func (l *listener) run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := l.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	version := l.store.Version()
	l.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			redraw := false
			if res, expired := l.resolver.Expire(l.state, now, l.snap); expired {
				l.record("(timeout)", res)
				redraw = true
			}
			if v := l.store.Version(); v != version {
				version = v
				redraw = true
			}
			if redraw {
				l.draw()
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if quits(ev, l.state, time.Now()) {
					return nil
				}
				raw := key.FromTcell(ev)
				res := l.resolver.HandleKeyEvent(l.state, raw, l.platform, l.snap)
				if !res.Ignored {
					l.record(describeRaw(raw, l.platform), res)
				}
				l.draw()
			case *tcell.EventResize:
				l.screen.Sync()
				l.draw()
			}
		}
	}
}

// quits reports whether ev ends the session. ctrl+c quits only while no
// chord is in progress, so chords such as "ctrl+k ctrl+c" can complete.
func quits(ev *tcell.EventKey, state *chord.State, now time.Time) bool {
	if ev.Key() != tcell.KeyCtrlC {
		return false
	}
	if !state.IsPending() {
		return true
	}
	deadline, ok := state.Deadline()
	return ok && now.After(deadline)
}

func describeRaw(raw key.RawEvent, platform key.Platform) string {
	if p, ok := key.ToKeyPress(raw, platform); ok {
		return p.String()
	}
	return "?"
}

func (l *listener) record(press string, res input.Resolution) {
	l.history = append(l.history, fmt.Sprintf("%-20s %s", press, res))
	if len(l.history) > historySize {
		l.history = l.history[len(l.history)-historySize:]
	}
}

func (l *listener) draw() {
	l.screen.Clear()
	table := l.store.Load()

	drawText(l.screen, 0, 0, l.accent, "keychord listen")
	drawText(l.screen, 16, 0, tcell.StyleDefault,
		fmt.Sprintf("  platform %s  bindings %d  version %d  (ctrl+c quits when idle)",
			l.platform, table.Len(), l.store.Version()))

	pending := "-"
	if l.state.IsPending() {
		pending = key.Canonical(l.state.Pending())
		if l.state.HasDeferred() {
			pending += "  (bound; waiting for more)"
		}
	}
	drawText(l.screen, 0, 2, tcell.StyleDefault.Bold(true), "pending: ")
	drawText(l.screen, 9, 2, l.accent, pending)

	for i, line := range l.history {
		drawText(l.screen, 0, 4+i, tcell.StyleDefault, line)
	}
	l.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
