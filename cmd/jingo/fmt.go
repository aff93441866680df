package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Owez/jingo"
)

// getFmtCmd rewrites files into canonical form. Without flags the result
// goes to stdout; -w writes in place, --check only reports which files
// would change.
func getFmtCmd(gs *globalState) *cobra.Command {
	var (
		write bool
		check bool
	)
	c := &cobra.Command{
		Use:   "fmt <file> [file ...]",
		Short: "Format files into canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if write && check {
				return fmt.Errorf("-w and --check are mutually exclusive")
			}

			changed := 0
			for _, path := range args {
				src, name, err := gs.loadSource(path)
				if err != nil {
					return err
				}
				prog, err := jingo.Parse(src)
				if err != nil {
					return jingo.WrapErrorWithName(err, name, src)
				}
				canon := jingo.Format(prog)

				switch {
				case check:
					if canon != src {
						fmt.Fprintln(gs.stdout, name)
						changed++
					}
				case write:
					if path == "-" {
						return fmt.Errorf("cannot write in place to stdin")
					}
					if canon == src {
						continue
					}
					info, err := gs.fs.Stat(path)
					if err != nil {
						return err
					}
					if err := afero.WriteFile(gs.fs, path, []byte(canon), info.Mode()); err != nil {
						return fmt.Errorf("writing %s: %w", path, err)
					}
					gs.logger.Debugf("rewrote %s", path)
				default:
					fmt.Fprint(gs.stdout, canon)
				}
			}

			if check && changed > 0 {
				return fmt.Errorf("%d file(s) not in canonical form", changed)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&write, "write", "w", false, "write the result back in place")
	c.Flags().BoolVar(&check, "check", false, "exit nonzero if any file would change")
	return c
}
