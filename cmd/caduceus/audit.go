package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"caduceus-hq/veritas/pkg/cli"
	"caduceus-hq/veritas/pkg/config"
	"caduceus-hq/veritas/pkg/record"
	"caduceus-hq/veritas/pkg/record/integrity"
	"caduceus-hq/veritas/pkg/record/storage"
)

var auditFlags struct {
	dbPath   string
	recordID uint64
	action   string
	limit    int
	offset   int
	format   string
	output   string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the audit trail",
	Long: `Query and verify the append-only audit trail.

The audit command reads the audit region directly from the database
file, without going through a running server. Queries open the
database read-only with the pure-Go driver, so they are safe to run
against a live instance.

Subcommands:
  query - Query audit entries with filters
  sweep - Run an integrity sweep over records and audit entries

Examples:
  # Show the latest audit entries
  caduceus audit query --limit 20

  # Entries for one record
  caduceus audit query --record-id 42

  # Export to JSON file
  caduceus audit query --format json --output audit.json`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit entries",
	Long: `Query audit entries with various filters.

Entries are returned in ascending ID order, which is also causal
order: entry N was appended before entry N+1.

Examples:
  # All entries for a record
  caduceus audit query --record-id 42

  # Only compliance report generations
  caduceus audit query --action COMPLIANCE_REPORT_GENERATED

  # Paginate
  caduceus audit query --limit 50 --offset 100`,
	RunE: queryAudit,
}

var auditSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run an integrity sweep",
	Long: `Run an integrity sweep over the record and audit regions.

The sweep verifies that every record carries a signature and has a
matching RECORD_CREATED audit entry, and reports any violations.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditSweepCmd)

	auditQueryCmd.Flags().StringVar(&auditFlags.dbPath, "db", "", "database path (uses config if not specified)")
	auditQueryCmd.Flags().Uint64Var(&auditFlags.recordID, "record-id", 0, "filter by record ID")
	auditQueryCmd.Flags().StringVar(&auditFlags.action, "action", "", "filter by action (RECORD_CREATED, COMPLIANCE_REPORT_GENERATED)")
	auditQueryCmd.Flags().IntVar(&auditFlags.limit, "limit", 100, "max results")
	auditQueryCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditQueryCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json")
	auditQueryCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")

	auditSweepCmd.Flags().StringVar(&auditFlags.dbPath, "db", "", "database path (uses config if not specified)")
}

func auditDBPath() (string, error) {
	if auditFlags.dbPath != "" {
		return auditFlags.dbPath, nil
	}
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Storage.Path, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	path, err := auditDBPath()
	if err != nil {
		return err
	}

	// Read-only open with the pure-Go driver, so a concurrent server
	// holding the WAL lock is never blocked or disturbed.
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	var sb strings.Builder
	sb.WriteString("SELECT value FROM audit_entries")
	var queryArgs []interface{}
	if auditFlags.recordID > 0 {
		sb.WriteString(" WHERE record_id = ?")
		queryArgs = append(queryArgs, auditFlags.recordID)
	}
	sb.WriteString(" ORDER BY id ASC LIMIT ? OFFSET ?")
	queryArgs = append(queryArgs, auditFlags.limit, auditFlags.offset)

	rows, err := db.QueryContext(ctx, sb.String(), queryArgs...)
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("query failed: %w", err))
	}
	defer rows.Close()

	var entries []*record.AuditEntry
	for rows.Next() {
		var value []byte
		if err := rows.Scan(&value); err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		entry, err := record.DecodeAuditEntry(value)
		if err != nil {
			return fmt.Errorf("corrupt audit entry: %w", err)
		}
		if auditFlags.action != "" && entry.Action != auditFlags.action {
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	var output *os.File
	if auditFlags.output != "" {
		output, err = os.Create(auditFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	switch auditFlags.format {
	case "json":
		return outputAuditJSON(output, entries)
	default:
		return outputAuditText(output, entries)
	}
}

func outputAuditText(output *os.File, entries []*record.AuditEntry) error {
	fmt.Fprintf(output, "Total entries: %d\n", len(entries))
	fmt.Fprintln(output)

	if len(entries) == 0 {
		fmt.Fprintln(output, "No entries found.")
		return nil
	}

	for i, entry := range entries {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Entry ID: %d\n", entry.ID)
		fmt.Fprintf(output, "Record ID: %d\n", entry.RecordID)
		fmt.Fprintf(output, "Action: %s\n", entry.Action)
		fmt.Fprintf(output, "Timestamp: %s\n", entry.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(output, "Caller: %s\n", entry.Caller)
		fmt.Fprintf(output, "Details: %s\n", entry.Details)
		fmt.Fprintf(output, "Compliance: %s\n", strings.Join(entry.ComplianceTags, ", "))
	}

	return nil
}

func outputAuditJSON(output *os.File, entries []*record.AuditEntry) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	result := map[string]interface{}{
		"total_entries": len(entries),
		"entries":       entries,
	}

	return encoder.Encode(result)
}

func runSweep(cmd *cobra.Command, args []string) error {
	path, err := auditDBPath()
	if err != nil {
		return err
	}

	storeCfg := storage.DefaultSQLiteConfig()
	storeCfg.Path = path
	store, err := storage.NewSQLiteStore(storeCfg)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer store.Close()

	sweeper := integrity.NewSweeper(store.Records(), store.Audit())
	report, err := sweeper.Sweep(context.Background())
	if err != nil {
		return cli.NewCommandError("audit", fmt.Errorf("sweep failed: %w", err))
	}

	fmt.Println("Integrity Sweep Report")
	fmt.Println("======================")
	fmt.Printf("Records: %d\n", report.RecordCount)
	fmt.Printf("Audit entries: %d\n", report.AuditCount)
	fmt.Printf("Unsigned records: %d\n", len(report.UnsignedRecords))
	fmt.Printf("Orphaned records: %d\n", len(report.OrphanedRecords))
	fmt.Println()

	if report.Clean() {
		fmt.Println("✓ No violations found")
		return nil
	}

	if len(report.UnsignedRecords) > 0 {
		fmt.Printf("Unsigned record IDs: %v\n", report.UnsignedRecords)
	}
	if len(report.OrphanedRecords) > 0 {
		fmt.Printf("Orphaned record IDs: %v\n", report.OrphanedRecords)
	}
	return fmt.Errorf("integrity sweep found violations")
}
