package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/chatrelay/internal/config"
	"github.com/nfrund/chatrelay/internal/server"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear a room's persisted message history",
}

var historyListCmd = &cobra.Command{
	Use:   "list <room>",
	Short: "Print a room's history, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := server.NewStore(ctx, config.New())
		if err != nil {
			return err
		}
		defer store.Close()

		msgs, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Printf("room %q has no history\n", args[0])
			return nil
		}
		for _, m := range msgs {
			ts := time.UnixMilli(m.TS).UTC().Format(time.RFC3339)
			fmt.Printf("%s  %s\n", ts, m.Text)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <room>",
	Short: "Reset a room's history to empty",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := server.NewStore(ctx, config.New())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("cleared history for room %q\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
