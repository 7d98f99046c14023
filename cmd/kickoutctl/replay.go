package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/kickout/internal/replay"
)

var replayCfg = replay.DefaultConfig()

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Submit a synthetic match to a board and verify its predictions",
	RunE:  runReplay,
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayCfg.BaseURL, "url", replayCfg.BaseURL, "board base URL")
	f.IntVarP(&replayCfg.Kickouts, "kickouts", "n", replayCfg.Kickouts, "kickouts to generate")
	f.Uint64Var(&replayCfg.Seed, "seed", replayCfg.Seed, "generator seed")
	f.Float64Var(&replayCfg.Rate, "rate", replayCfg.Rate, "submissions per second, 0 for unlimited")
	f.Float64Var(&replayCfg.Bias, "bias", replayCfg.Bias, "probability of the preferred zone")
	f.DurationVar(&replayCfg.Timeout, "timeout", replayCfg.Timeout, "HTTP request timeout")
	f.StringSliceVar(&replayCfg.Calls, "calls", replayCfg.Calls, "play calls to pick from")
	f.StringSliceVar(&replayCfg.Setups, "setups", replayCfg.Setups, "setups to pick from")
	f.BoolVar(&replayCfg.Clear, "clear", replayCfg.Clear, "clear the board first")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, _ []string) error {
	stats, err := replay.Run(cmd.Context(), replayCfg)
	if stats != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "submitted %d, duplicate %d, rejected %d, predictions checked %d, mismatches %d\n",
			stats.Submitted, stats.Duplicate, stats.Rejected, stats.Checked, len(stats.Mismatches))
		for _, m := range stats.Mismatches {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+m.String())
		}
	}
	return err
}
