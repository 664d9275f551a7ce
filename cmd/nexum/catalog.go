package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nexumdb/internal/engine"
)

// dumpCatalogCmd lists every table (ShowTables) and then describes
// each one in turn (DescribeTable), printing the formatted result of
// both. It exists purely as a read-only convenience over two
// operations the Statement interface already exposes.
func dumpCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-catalog",
		Short: "list every table and print its schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			result, err := sess.ex.Execute(engine.ShowTables{})
			if err != nil {
				return err
			}
			list, ok := result.(engine.TableList)
			if !ok {
				return fmt.Errorf("nexum: unexpected result type %T for ShowTables", result)
			}

			text, err := sess.out.Format(list)
			if err != nil {
				return err
			}
			fmt.Print(text)

			for _, name := range list.Tables {
				text, err := sess.run(engine.DescribeTable{Table: name})
				if err != nil {
					return fmt.Errorf("nexum: describe %q: %w", name, err)
				}
				fmt.Print(text)
			}
			return nil
		},
	}
}
