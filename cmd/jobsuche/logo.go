package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logoCmd = &cobra.Command{
	Use:   "logo EMPLOYER_HASH",
	Short: "Download an employer logo as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogo,
}

var logoOut string

func init() {
	logoCmd.Flags().StringVarP(&logoOut, "out", "o", "", "Output file (default EMPLOYER_HASH.png)")
	rootCmd.AddCommand(logoCmd)
}

func runLogo(cmd *cobra.Command, args []string) error {
	svc, logger, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	hash := args[0]
	png, ok, err := svc.Logo(cmd.Context(), hash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("employer %s has no logo", hash)
	}

	out := logoOut
	if out == "" {
		out = hash + ".png"
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("failed to write logo: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(png), out)
	return nil
}
