package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/when"
)

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file>",
		Short: "Rewrite a declarations file in canonical JSON",
		Long: `Read a JSON, TOML or YAML declarations file and print it as JSON with every
chord and when clause in canonical form. Declarations that do not parse are
reported on stderr and left out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := config.LoadDeclarations(args[0])
			if err != nil {
				return err
			}

			out := make([]keymap.Declaration, 0, len(decls))
			for i, d := range decls {
				nd, err := normalizeDeclaration(d)
				if err != nil {
					opts.logger.Debug("declaration left out", "index", i, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s[%d]: %v\n", args[0], i, err)
					continue
				}
				out = append(out, nd)
			}

			data, err := keymap.EncodeJSON(out)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// normalizeDeclaration canonicalizes the chord and when clause. Removal
// declarations keep an empty key.
func normalizeDeclaration(d keymap.Declaration) (keymap.Declaration, error) {
	if d.Keys != "" || !d.IsRemoval() {
		keys, err := key.NormalizeChord(d.Keys)
		if err != nil {
			return d, err
		}
		d.Keys = keys
	}
	expr, err := when.ParseOptional(d.When)
	if err != nil {
		return d, err
	}
	if expr == nil {
		d.When = ""
	} else {
		d.When = when.String(expr)
	}
	return d, nil
}
