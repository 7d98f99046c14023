package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/internal/domain/session"
)

var predictJSON bool

var predictCmd = &cobra.Command{
	Use:   "predict CALL SETUP",
	Short: "Print the prediction for a call and setup from the stored log",
	Args:  cobra.ExactArgs(2),
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	log, err := loadLog(cmd.Context())
	if err != nil {
		return err
	}
	res := prediction.Predict(log, session.NormalizeCall(args[0]), session.NormalizeSetup(args[1]))
	if predictJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}
