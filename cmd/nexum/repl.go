package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nexumdb/internal/engine"
)

// replCmd reads one JSON statement per line from stdin until EOF or
// an "exit"/"quit" line, executing each against a single long-lived
// Executor. Each call to Execute still runs to completion before the
// next line is read; the loop only adds line-at-a-time batching on
// top.
func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "read JSON statements from stdin, one per line, until EOF",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				stmt, err := engine.DecodeStatement([]byte(line))
				if err != nil {
					fmt.Fprintln(os.Stderr, "nexum:", err)
					continue
				}
				text, err := sess.run(stmt)
				if err != nil {
					fmt.Fprintln(os.Stderr, "nexum:", err)
					continue
				}
				fmt.Print(text)
			}
			return scanner.Err()
		},
	}
}
