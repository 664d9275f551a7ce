package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nexumdb/internal/engine"
)

// execCmd runs a single statement supplied inline, from a file, or
// from stdin ("-"): a one-shot verb command that reads an input
// document and prints one rendered result.
func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec {'<json>' | path/to/statement.json | -}",
		Short: "execute a single JSON-encoded statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readStatementArg(args[0])
			if err != nil {
				return err
			}
			stmt, err := engine.DecodeStatement(raw)
			if err != nil {
				return err
			}

			sess, err := newSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			text, err := sess.run(stmt)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}
}

// readStatementArg resolves arg into raw statement bytes: "-" reads
// stdin, a string that looks like a JSON object is used literally,
// and anything else is treated as a file path.
func readStatementArg(arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	if strings.HasPrefix(strings.TrimSpace(arg), "{") {
		return []byte(arg), nil
	}
	raw, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("nexum: read statement file %q: %w", arg, err)
	}
	return raw, nil
}
