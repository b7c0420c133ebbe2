package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aellingwood/linkforge/internal/loader"
	"github.com/aellingwood/linkforge/internal/schema"
	"github.com/aellingwood/linkforge/internal/validate"
)

// errInvalid is returned when the configuration had to be repaired.
var errInvalid = errors.New("configuration is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a page configuration",
	Long: "Validate loads the page configuration, reports every error and warning, " +
		"and exits non-zero when the configuration needed repair. With a file argument " +
		"only that file is checked.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, nil)
		if err != nil {
			return err
		}

		var sources []loader.Source
		if len(args) == 1 {
			sources = []loader.Source{loader.FileSource{Path: args[0]}}
		}
		res := e.open(cmd.Context(), sources...).Result()

		issues := res.Issues
		if resolve, _ := cmd.Flags().GetBool("resolve"); resolve {
			issues = issues.Merge(schema.CheckHosts(cmd.Context(), res.Config, validate.NewHostChecker(nil)))
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(issues); err != nil {
				return err
			}
		} else {
			printIssues(out, res, issues)
		}

		if res.State == loader.Degraded {
			return fmt.Errorf("%w: %d errors", errInvalid, len(res.Issues.Errors))
		}
		return nil
	},
}

func printIssues(out io.Writer, res *loader.Result, issues schema.Result) {
	fmt.Fprintf(out, "source: %s\n", res.Source)
	fmt.Fprintf(out, "state:  %s\n", res.State)
	for _, is := range issues.Errors {
		fmt.Fprintln(out, formatIssue("error", is))
	}
	for _, is := range issues.Warnings {
		fmt.Fprintln(out, formatIssue("warning", is))
	}
	if issues.Valid && len(issues.Warnings) == 0 {
		fmt.Fprintln(out, "no issues found")
	}
}

func formatIssue(kind string, is schema.Issue) string {
	s := fmt.Sprintf("%-8s %s [%s]", kind, is.Error(), is.Code)
	if is.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean %q?)", is.Suggestion)
	}
	return s
}

func init() {
	validateCmd.Flags().Bool("json", false, "print the issues as JSON")
	validateCmd.Flags().Bool("resolve", false, "resolve link hosts and warn about private addresses")

	rootCmd.AddCommand(validateCmd)
}
