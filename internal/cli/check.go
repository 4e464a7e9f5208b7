package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/internal/domain/priority"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

type checkOutput struct {
	Report  *conversiondomain.PriorityReport `json:"report"`
	Updates []priority.Update                `json:"updates,omitempty"`
}

func newCheckCommand(opts *options) *cobra.Command {
	var (
		convertFileID int64
		fix           bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report duplicate or stale property priorities of a convert file",
		Long: `check prints the priority report of one convert file.

With --fix the active properties are renumbered 1..N and the applied updates
are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if convertFileID <= 0 {
				return errors.New("--convert-file-id must be positive")
			}

			application, err := opts.open()
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			defer application.Close()

			ctx := cmd.Context()
			service := application.Conversion()

			var updates []priority.Update
			if fix {
				updates, err = service.NormalizeProperties(ctx, convertFileID)
				if err != nil {
					return fmt.Errorf("normalize: %w", err)
				}
			}

			report, err := service.ValidatePriorities(ctx, convertFileID)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(checkOutput{Report: report, Updates: updates})
			}
			printReport(out, report, fix, updates)
			return nil
		},
	}

	cmd.Flags().Int64Var(&convertFileID, "convert-file-id", 0, "convert file to check")
	cmd.Flags().BoolVar(&fix, "fix", false, "renumber active properties")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("convert-file-id")
	return cmd
}

func printReport(out io.Writer, report *conversiondomain.PriorityReport, fixed bool, updates []priority.Update) {
	fmt.Fprintf(out, "convert file %d: %d active, %d deleted\n", report.ConvertFileID, report.ActiveCount, report.DeletedCount)
	fmt.Fprintf(out, "used priorities: %s\n", joinInts(report.Used))
	fmt.Fprintf(out, "next priority: %d, next free slot: %d\n", report.NextPriority, report.NextAvailable)

	if report.IsValid {
		okColor.Fprintln(out, "priorities are unique")
	} else {
		failColor.Fprintln(out, "duplicate priorities:")
		for _, duplicate := range report.Duplicates {
			ids := make([]string, 0, len(duplicate.ItemIDs))
			for _, id := range duplicate.ItemIDs {
				ids = append(ids, fmt.Sprint(id))
			}
			fmt.Fprintf(out, "  %d: %s\n", duplicate.Priority, strings.Join(ids, ", "))
		}
	}

	if !fixed {
		return
	}
	if len(updates) == 0 {
		fmt.Fprintln(out, "nothing to renumber")
		return
	}
	fmt.Fprintf(out, "renumbered %d propert(ies):\n", len(updates))
	for _, update := range updates {
		fmt.Fprintf(out, "  #%d -> %d\n", update.ID, update.Priority)
	}
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, fmt.Sprint(value))
	}
	return strings.Join(parts, ", ")
}
