package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details REFNR...",
	Short: "Fetch full listings by reference number",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetails,
}

var detailsJSON bool

func init() {
	detailsCmd.Flags().BoolVar(&detailsJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	svc, logger, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	result, err := svc.Details(cmd.Context(), args)
	if err != nil {
		return err
	}

	if detailsJSON {
		return printJSON(result)
	}

	for i, d := range result.Details {
		if i > 0 {
			fmt.Println(strings.Repeat("-", 72))
		}
		fmt.Printf("%s (%s)\n%s\n", d.Title, d.Refnr, d.Employer)
		for _, loc := range d.Locations {
			fmt.Printf("  %s\n", loc.String())
		}
		if d.Salary != "" {
			fmt.Printf("Salary: %s\n", d.Salary)
		}
		if d.Description != "" {
			fmt.Printf("\n%s\n", d.Description)
		}
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(os.Stderr, "no longer available: %s\n", strings.Join(result.Missing, ", "))
	}
	return nil
}
