package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/session"
	"github.com/dshills/keychord/internal/input/when"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		keys     string
		replay   string
		ctxFlags []string
		gap      time.Duration
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a key sequence against the merged bindings",
		Long: `Feed a sequence of key presses through the resolver and print the outcome
of each press. Presses are spaced --gap apart; a pending chord still open after
the last press is flushed once its window lapses.

A session captured with "keychord listen --record" can be replayed with
--replay instead of --keys; its recorded gaps and platform are kept.

Context keys are given with --ctx:
  --ctx editorTextFocus        set to true
  --ctx !editorReadonly        set to false
  --ctx resourceExtname=.go    set to a string`,
		Example: `  keychord resolve --keys "ctrl+k ctrl+s"
  keychord resolve --keys "ctrl+z" --ctx editorTextFocus --json
  keychord resolve --replay session.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := recordingFor(keys, replay, gap, opts.cfg.Platform)
			if err != nil {
				return err
			}
			snap, err := parseContext(ctxFlags)
			if err != nil {
				return err
			}
			table, err := opts.build(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			r := input.NewResolver(input.StaticTable(table),
				input.WithConfig(input.Config{
					ChordTimeout: opts.cfg.ChordTimeout,
					Platform:     opts.cfg.Platform,
				}),
				input.WithLogger(opts.logger),
			)
			steps := session.Replay(r, rec, snap)
			if asJSON {
				return writeStepsJSON(cmd.OutOrStdout(), steps)
			}
			writeSteps(cmd.OutOrStdout(), steps)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keys, "keys", "k", "", `Key sequence, e.g. "ctrl+k ctrl+s"`)
	cmd.Flags().StringVar(&replay, "replay", "", "Replay a recorded session file")
	cmd.Flags().StringArrayVar(&ctxFlags, "ctx", nil, "Context key: name, !name or name=value (repeatable)")
	cmd.Flags().DurationVar(&gap, "gap", 100*time.Millisecond, "Time between presses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.MarkFlagsMutuallyExclusive("keys", "replay")
	cmd.MarkFlagsOneRequired("keys", "replay")
	return cmd
}

// recordingFor builds the events to resolve from --keys or --replay.
func recordingFor(keys, replay string, gap time.Duration, platform key.Platform) (session.Recording, error) {
	if replay != "" {
		return session.Load(replay)
	}
	c, err := key.ParseChord(keys)
	if err != nil {
		return session.Recording{}, err
	}
	return session.FromPresses(platform, c.Presses(), gap), nil
}

// pressText describes a replayed step for output. Modifiers are shown as
// physically held.
func pressText(s session.Step) string {
	if s.Timeout {
		return "(timeout)"
	}
	ev := s.Event.Raw(time.Time{})
	if p, ok := key.ToKeyPress(ev, key.PlatformMac); ok {
		return p.String()
	}
	return ev.Key.String()
}

// parseContext turns --ctx flags into a snapshot.
func parseContext(flags []string) (when.Snapshot, error) {
	snap := when.Snapshot{}
	for _, f := range flags {
		f = strings.TrimSpace(f)
		switch {
		case f == "" || f == "!":
			return nil, fmt.Errorf("empty context key in %q", f)
		case strings.HasPrefix(f, "!"):
			snap[f[1:]] = false
		default:
			name, value, ok := strings.Cut(f, "=")
			if name == "" {
				return nil, fmt.Errorf("empty context key in %q", f)
			}
			if ok {
				snap[name] = value
			} else {
				snap[name] = true
			}
		}
	}
	return snap, nil
}

func writeSteps(w io.Writer, steps []session.Step) {
	for i, s := range steps {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, pressText(s), s.Resolution)
	}
}

func writeStepsJSON(w io.Writer, steps []session.Step) error {
	out := []byte("[]")
	for i, s := range steps {
		item, err := resolutionJSON(s.Resolution)
		if err != nil {
			return err
		}
		if s.Timeout {
			item, err = sjson.SetBytes(item, "timeout", true)
		} else {
			item, err = sjson.SetBytes(item, "press", pressText(s))
		}
		if err != nil {
			return err
		}
		if out, err = sjson.SetRawBytes(out, "-1", item); err != nil {
			return fmt.Errorf("encoding step %d: %w", i+1, err)
		}
	}
	_, err := w.Write(pretty.Pretty(out))
	return err
}

func resolutionJSON(res input.Resolution) ([]byte, error) {
	item := []byte("{}")
	set := func(path string, v any) error {
		var err error
		item, err = sjson.SetBytes(item, path, v)
		return err
	}

	if err := set("kind", res.Kind.String()); err != nil {
		return nil, err
	}
	if !res.Chord.IsEmpty() {
		if err := set("chord", key.Canonical(res.Chord)); err != nil {
			return nil, err
		}
	}
	if res.IsCommand() {
		if err := set("command", res.Command); err != nil {
			return nil, err
		}
		if err := set("source", res.Source.String()); err != nil {
			return nil, err
		}
		if len(res.Args) > 0 {
			if err := set("args", res.Args); err != nil {
				return nil, err
			}
		}
	}
	if res.Ignored {
		if err := set("ignored", true); err != nil {
			return nil, err
		}
	}
	if res.Flushed != nil {
		flushed, err := resolutionJSON(*res.Flushed)
		if err != nil {
			return nil, err
		}
		if item, err = sjson.SetRawBytes(item, "flushed", flushed); err != nil {
			return nil, err
		}
	}
	return item, nil
}
