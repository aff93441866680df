package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Owez/jingo"
)

// getParseCmd parses a file and dumps one s-expression per top-level
// expression, the quickest way to see what tree a snippet produces.
func getParseCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and print its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src, name, err := gs.loadSource(args[0])
			if err != nil {
				return err
			}
			prog, err := jingo.Parse(src)
			if err != nil {
				return jingo.WrapErrorWithName(err, name, src)
			}
			gs.logger.WithField("expressions", len(prog)).Debugf("parsed %s", name)
			if len(prog) > 0 {
				fmt.Fprintln(gs.stdout, jingo.SexprProgram(prog))
			}
			return nil
		},
	}
}
