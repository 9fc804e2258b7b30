package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/recon_backend/config"
	"bitbucket.org/mmdatafocus/recon_backend/models"
	"bitbucket.org/mmdatafocus/recon_backend/models/reports"
)

// Exports one account's daily statement to an xlsx file without going
// through the HTTP layer. Used by support for ad-hoc partner requests.
func main() {
	accountID := flag.Int("account-id", 0, "Account id to export (required)")
	from := flag.String("from", "", "Start date (YYYY-MM-DD, required)")
	to := flag.String("to", "", "End date (YYYY-MM-DD, required)")
	out := flag.String("out", "statement.xlsx", "Output file path")
	flag.Parse()

	if *accountID <= 0 || *from == "" || *to == "" {
		flag.Usage()
		os.Exit(2)
	}
	fromDate, err := time.Parse("2006-01-02", *from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid from date: %v\n", err)
		os.Exit(2)
	}
	toDate, err := time.Parse("2006-01-02", *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid to date: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	operations, err := models.ListOperationsByAccountAndRange(ctx, *accountID, fromDate, toDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list operations: %v\n", err)
		os.Exit(1)
	}
	report, err := reports.BuildAccountStatement(ctx, *accountID, operations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build statement: %v\n", err)
		os.Exit(1)
	}
	f, err := reports.ExportAccountStatementExcel(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render workbook: %v\n", err)
		os.Exit(1)
	}
	if err := f.SaveAs(*out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("exported %d operations across %d days to %s\n", len(operations), len(report.Days), *out)
}
