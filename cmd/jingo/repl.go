package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/Owez/jingo"
)

const (
	historyFile = ".jingo_history"
	promptMain  = "==> "
	promptCont  = "... "
)

// getReplCmd starts an interactive loop: each submitted snippet is parsed
// and echoed back in canonical form alongside its tree. Input that ends
// mid-construct keeps reading under a continuation prompt.
func getReplCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive parse-and-format loop",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(gs.stdout, "Jingo %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.\n", jingo.Version)

			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			histPath := historyPath()
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()

			for {
				code, ok := readByParseProbe(ln)
				if !ok {
					fmt.Fprintln(gs.stdout)
					return nil
				}
				trimmed := strings.TrimSpace(code)
				if trimmed == "" {
					continue
				}
				if strings.HasPrefix(trimmed, ":") {
					if strings.EqualFold(trimmed, ":quit") {
						return nil
					}
					fmt.Fprintln(gs.stdout, "unknown command. Type :quit to exit.")
					continue
				}

				prog, err := jingo.Parse(code)
				if err != nil {
					fmt.Fprintln(gs.stderr, color.RedString(jingo.WrapErrorWithSource(err, code).Error()))
					continue
				}
				fmt.Fprint(gs.stdout, colorizeSource(jingo.Format(prog)))
				fmt.Fprintln(gs.stdout, color.HiBlackString(jingo.SexprProgram(prog)))
				ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			}
		},
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// readByParseProbe accumulates lines until the buffer parses, or fails in
// a way more input cannot fix. Returns false on Ctrl+D.
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C: drop the pending buffer
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := jingo.Parse(src); perr == nil || !jingo.IsIncomplete(perr) {
			return src, true
		}
	}
}

// colorizeSource renders canonical output with documentation lines green
// and code blue, line by line.
func colorizeSource(src string) string {
	lines := strings.Split(src, "\n")
	for i, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(ln, " \t"), "---") {
			lines[i] = color.GreenString(ln)
		} else {
			lines[i] = color.BlueString(ln)
		}
	}
	return strings.Join(lines, "\n")
}
