package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd groups the result cache inspection subcommands: stats
// prints the hit/miss/entry counts (see internal/resultcache.Cache.
// Stats), and clear wipes it. Both operate on whatever cache file
// --config points at, loading it on entry exactly as a normal session
// would.
func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "inspect or reset the result cache",
	}
	cmd.AddCommand(cacheStatsCmd(), cacheClearCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print result cache hit/miss/entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession()
			if err != nil {
				return err
			}
			defer sess.Close()
			fmt.Println(sess.ex.Cache().Stats())
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "clear every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession()
			if err != nil {
				return err
			}
			defer sess.Close()
			sess.ex.Cache().ClearAll()
			fmt.Println("cache cleared")
			return nil
		},
	}
}
