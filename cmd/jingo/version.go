package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Owez/jingo"
)

func getVersionCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compiled version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(gs.stdout, "%s v%s\n", appName, jingo.Version)
		},
	}
}
