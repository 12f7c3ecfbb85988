package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wunderfrucht/jobsuche/internal/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job listings",
	Long:  "Search one page of listings, or walk every page with --all. The service serves at most 100 pages per search.",
	Example: `  jobsuche search -t Koch -l Berlin --radius 25
  jobsuche search -t Softwareentwickler --working-time ho --all --limit 300 --json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var (
	searchTitle           string
	searchLocation        string
	searchRadius          int
	searchEmployer        string
	searchEmploymentTypes []string
	searchContractTypes   []string
	searchWorkingTimes    []string
	searchPublishedWithin int
	searchTempAgency      bool
	searchPage            int
	searchSize            int
	searchAll             bool
	searchLimit           int
	searchJSON            bool
)

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchTitle, "title", "t", "", "Job title or keywords")
	f.StringVarP(&searchLocation, "location", "l", "", "Place of work")
	f.IntVar(&searchRadius, "radius", 0, "Radius around --location in km")
	f.StringVar(&searchEmployer, "employer", "", "Exact employer name")
	f.StringSliceVar(&searchEmploymentTypes, "employment-type", nil, "Offer type: 1, 2, 4 or 34 (repeatable)")
	f.StringSliceVar(&searchContractTypes, "contract-type", nil, "Contract type: 1 fixed-term, 2 permanent (repeatable)")
	f.StringSliceVar(&searchWorkingTimes, "working-time", nil, "Working time: vz, tz, snw, ho, mj (repeatable)")
	f.IntVar(&searchPublishedWithin, "published-within", 0, "Only listings published in the last N days")
	f.BoolVar(&searchTempAgency, "temp-agency", true, "Include temporary employment agencies")
	f.IntVar(&searchPage, "page", 1, "1-based page number")
	f.IntVar(&searchSize, "size", 50, "Results per page (at most 100)")
	f.BoolVar(&searchAll, "all", false, "Walk all pages up to --limit")
	f.IntVar(&searchLimit, "limit", 500, "Maximum jobs with --all")
	f.BoolVar(&searchJSON, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(searchCmd)
}

func searchParams(cmd *cobra.Command) domain.SearchParams {
	p := domain.SearchParams{
		Title:           searchTitle,
		Location:        searchLocation,
		Employer:        searchEmployer,
		EmploymentTypes: searchEmploymentTypes,
		ContractTypes:   searchContractTypes,
		WorkingTimes:    searchWorkingTimes,
		Page:            searchPage,
		Size:            searchSize,
	}
	flags := cmd.Flags()
	if flags.Changed("radius") {
		p.Radius = &searchRadius
	}
	if flags.Changed("published-within") {
		p.PublishedWithin = &searchPublishedWithin
	}
	if flags.Changed("temp-agency") {
		p.TempAgency = &searchTempAgency
	}
	return p
}

func runSearch(cmd *cobra.Command, _ []string) error {
	svc, logger, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	params := searchParams(cmd)

	if !searchAll {
		result, err := svc.Search(ctx, params)
		if err != nil {
			return err
		}
		if searchJSON {
			return printJSON(result)
		}
		fmt.Fprintf(os.Stderr, "page %d, %d of %d job(s)\n", result.Page, len(result.Jobs), result.Total)
		return printJobs(result.Jobs)
	}

	result, collectErr := svc.Collect(ctx, params, searchLimit)
	if searchJSON {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		if err := printJobs(result.Jobs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d job(s) from %d page(s), %d declared\n", len(result.Jobs), result.Pages, result.Total)
	}
	if result.Truncated {
		fmt.Fprintln(os.Stderr, "the service stopped at page 100; narrow the search to see the rest")
	}
	if collectErr != nil {
		return fmt.Errorf("search stopped early after %d job(s): %w", len(result.Jobs), collectErr)
	}
	return nil
}

func printJobs(jobs []domain.JobSummary) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REFNR\tTITLE\tEMPLOYER\tLOCATION\tPUBLISHED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.Refnr, j.Title, j.Employer, j.Location, j.PublishedAt)
	}
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
