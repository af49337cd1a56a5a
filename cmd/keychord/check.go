package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

var errRejected = errors.New("some key bindings were rejected")

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		noDefaults bool
		conflicts  bool
	)
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate and merge key binding declarations",
		Long: `Load the configured binding tiers, merge them, and report every rejected
declaration. Files given as arguments replace the configured user tier and are
read in order.

Exits with status 1 when any declaration was rejected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.sources(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) > 0 {
				src.User = nil
				for _, path := range args {
					decls, err := config.LoadDeclarations(path)
					if err != nil {
						return err
					}
					src.User = append(src.User, decls...)
				}
			}
			if noDefaults {
				src.Default = nil
			}
			return runCheck(cmd, opts, src, conflicts)
		},
	}
	cmd.Flags().BoolVar(&noDefaults, "no-defaults", false, "Leave out the default tier")
	cmd.Flags().BoolVar(&conflicts, "conflicts", false, "List chords bound more than once")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *rootOptions, src keymap.Sources, showConflicts bool) error {
	out := cmd.OutOrStdout()

	table, buildErr := keymap.Build(src, keymap.WithLogger(opts.logger))
	rejected := keymap.DeclarationErrors(buildErr)

	fmt.Fprintf(out, "declarations: %d default, %d user, %d extension\n",
		len(src.Default), len(src.User), len(src.Extension))
	fmt.Fprintf(out, "bindings:     %d live, %d commands\n", table.Len(), len(table.Commands()))

	if showConflicts {
		for _, c := range table.Conflicts() {
			parts := make([]string, len(c.Entries))
			for i, e := range c.Entries {
				parts[i] = describeEntry(e)
			}
			fmt.Fprintf(out, "conflict %s: %s\n", key.Canonical(c.Chord), strings.Join(parts, " > "))
		}
	}

	if len(rejected) == 0 {
		fmt.Fprintln(out, "ok")
		return nil
	}
	fmt.Fprintf(out, "rejected:     %d\n", len(rejected))
	for _, de := range rejected {
		fmt.Fprintf(out, "  %s[%d] key=%q command=%q: %v\n",
			de.Source, de.Index, de.Declaration.Keys, de.Declaration.Command, de.Err)
	}
	return errRejected
}

func describeEntry(e keymap.Entry) string {
	s := fmt.Sprintf("%s [%s", e.Command, e.Source)
	if e.WhenText != "" {
		s += ", when " + e.WhenText
	}
	return s + "]"
}
