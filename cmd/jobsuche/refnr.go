package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
)

var decodeRefnrCmd = &cobra.Command{
	Use:   "decode-refnr ENCODED",
	Short: "Decode a reference number taken from a job details URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refnr, err := jobsuche.DecodeRefnr(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), refnr)
		return nil
	},
}

var encodeRefnrCmd = &cobra.Command{
	Use:   "encode-refnr REFNR",
	Short: "Encode a reference number for the job details endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), jobsuche.EncodeRefnr(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeRefnrCmd, encodeRefnrCmd)
}
