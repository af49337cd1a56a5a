package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/when"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		pattern     string
		search      string
		ctxFlags    []string
		activeOnly  bool
		asJSON      bool
		contextKeys bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the merged key bindings",
		Long: `Print the live bindings of the merged table in merge order. With --ctx the
ACTIVE column shows which when clauses hold for that context. --search ranks
bindings by a fuzzy match on the command id instead.`,
		Example: `  keychord list --command "editor.*"
  keychord list --search gotodef
  keychord list --ctx editorTextFocus --active
  keychord list --context-keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := parseContext(ctxFlags)
			if err != nil {
				return err
			}
			t, err := opts.build(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			entries := t.Entries()
			if pattern != "" {
				entries = t.MatchCommands(pattern)
			}
			if search != "" {
				entries = fuzzyEntries(entries, search)
			}
			if activeOnly {
				entries = filterActive(entries, snap)
			}

			out := cmd.OutOrStdout()
			switch {
			case contextKeys:
				for _, k := range referencedKeys(entries) {
					fmt.Fprintln(out, k)
				}
				return nil
			case asJSON:
				decls := make([]keymap.Declaration, len(entries))
				for i := range entries {
					decls[i] = entries[i].Declaration()
				}
				data, err := keymap.EncodeJSON(decls)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			fmt.Fprintln(out, bindingTable(entries, snap))
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "command", "", `Only commands matching a glob, e.g. "editor.*"`)
	cmd.Flags().StringVar(&search, "search", "", "Fuzzy-match command ids, best match first")
	cmd.Flags().StringArrayVar(&ctxFlags, "ctx", nil, "Context key: name, !name or name=value (repeatable)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only bindings whose when clause holds")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print canonical declarations as JSON")
	cmd.Flags().BoolVar(&contextKeys, "context-keys", false, "Print the context keys the bindings refer to")
	return cmd
}

// fuzzyEntries keeps the entries whose command fuzzily matches pattern,
// best match first.
func fuzzyEntries(entries []keymap.Entry, pattern string) []keymap.Entry {
	names := make([]string, len(entries))
	for i := range entries {
		names[i] = entries[i].Command
	}
	matches := fuzzy.Find(pattern, names)
	out := make([]keymap.Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return out
}

func filterActive(entries []keymap.Entry, snap when.Snapshot) []keymap.Entry {
	out := entries[:0:0]
	for i := range entries {
		if entries[i].Active(snap) {
			out = append(out, entries[i])
		}
	}
	return out
}

// referencedKeys returns the sorted context keys used by the when clauses.
func referencedKeys(entries []keymap.Entry) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, e := range entries {
		for _, k := range when.Keys(e.When) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func bindingTable(entries []keymap.Entry, snap when.Snapshot) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "COMMAND", "SOURCE", "WHEN", "ACTIVE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for i := range entries {
		e := &entries[i]
		active := "no"
		if e.Active(snap) {
			active = "yes"
		}
		t.Row(e.Keys(), e.Command, e.Source.String(), when.String(e.When), active)
	}
	return t.String()
}
