package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
	"github.com/jtessler/userctl/internal/locale"
	"github.com/jtessler/userctl/internal/style"
)

var getCmd = &cobra.Command{
	Use:     "get [id]...",
	Aliases: []string{"fetch", "retrieve"},
	GroupID: GroupBatch,
	Short:   "Print a table of the given users' record fields",
	Long: `Fetch every resolved record and print it as a table.

With --detailed, custom claims and the creation and last-sign-in
timestamps are included. With no identifiers, all records are listed.

Examples:
  userctl get alice@example.com 555-123-4567
  userctl get -d u_8f2k3j
  userctl get`,
	RunE: runGet,
}

// getDetailed adds claims and timestamps to the table.
var getDetailed bool

func init() {
	getCmd.Flags().BoolVarP(&getDetailed, "detailed", "d", false,
		"include custom claims and timestamps")

	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	var records []directory.UserRecord
	if len(args) == 0 {
		records, err = a.dir.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}
	} else {
		records = a.fetchRecords(ctx, args)
	}

	if len(records) == 0 {
		fmt.Println(a.printer.Sprintf(locale.MsgNoUsers))
		return nil
	}

	fmt.Println(renderTable(records, getDetailed))
	return nil
}

// fetchRecords resolves and fetches every identifier through the batch
// runner, printing a failure line per item that could not be fetched.
// Resolution fetches the full record in one directory call; the action
// stage just hands it through. Successful records come back in input order.
func (a *app) fetchRecords(ctx context.Context, args []string) []directory.UserRecord {
	var (
		mu      sync.Mutex
		fetched = make(map[string]*directory.UserRecord, len(args))
	)

	resolve := func(ctx context.Context, ident identifier.Identifier) (string, error) {
		rec, err := a.dir.UserByIdentifier(ctx, ident)
		if err != nil {
			return "", err
		}
		mu.Lock()
		fetched[rec.ID] = rec
		mu.Unlock()
		return rec.ID, nil
	}
	act := func(_ context.Context, userID string) (*directory.UserRecord, error) {
		mu.Lock()
		defer mu.Unlock()
		return fetched[userID], nil
	}

	outcomes := runBatchWith(ctx, a, a.identifiers(args), resolve, act, "")

	records := make([]directory.UserRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Failed() {
			records = append(records, *o.Value)
		}
	}
	return records
}

// renderTable renders records in input order; detailed adds claims and
// timestamps.
func renderTable(records []directory.UserRecord, detailed bool) string {
	headers := []string{"ID", "EMAIL", "PHONE", "NAME", "VERIFIED", "DISABLED"}
	if detailed {
		headers = append(headers, "CLAIMS", "CREATED", "LAST SIGN-IN")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Dim).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.TableHeader
			}
			return style.TableCell
		}).
		Headers(headers...)

	for _, rec := range records {
		row := []string{
			rec.ID,
			orDash(rec.Email),
			orDash(rec.PhoneNumber),
			orDash(rec.DisplayName),
			strconv.FormatBool(rec.Verified),
			strconv.FormatBool(rec.Disabled),
		}
		if detailed {
			row = append(row, formatClaims(rec.Claims), formatTime(&rec.CreatedAt), formatTime(rec.LastSignIn))
		}
		t.Row(row...)
	}

	return t.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatClaims(claims map[string]any) string {
	if len(claims) == 0 {
		return "-"
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return "?"
	}
	return string(data)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
