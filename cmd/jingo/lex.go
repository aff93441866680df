package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Owez/jingo"
)

// getLexCmd lists the token stream of a file, one token per line with its
// resolved position. The first unclassifiable slice of input fails the
// command.
func getLexCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src, name, err := gs.loadSource(args[0])
			if err != nil {
				return err
			}

			kindCol := color.New(color.FgCyan)
			lex := jingo.NewLexer(src)
			count := 0
			for {
				tok := lex.Next()
				if tok.Kind == jingo.EOF {
					gs.logger.WithField("tokens", count).Debug("lexing done")
					return nil
				}
				if tok.Kind == jingo.ILLEGAL {
					return fmt.Errorf("%s: input %q is not a known token",
						jingo.NewFilePos(name, src, tok.Start), tok.Lexeme)
				}
				pos := jingo.NewFilePos(name, src, tok.Start)
				fmt.Fprintf(gs.stdout, "%-20s %-8s %s\n", pos, kindCol.Sprint(tok.Kind), tok.Lexeme)
				count++
			}
		},
	}
}
