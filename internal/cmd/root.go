// Package cmd implements the userctl command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	// GroupBatch groups commands that fan out over many identifiers.
	GroupBatch = "batch"

	// GroupRecord groups commands that edit a single record.
	GroupRecord = "record"
)

var rootCmd = &cobra.Command{
	Use:   "userctl",
	Short: "Administer user records in the identity directory",
	Long: `userctl performs administrative operations against user identity
records in the configured directory backend.

Records are named by email address, phone number, or opaque user id;
userctl classifies each identifier by shape, so you rarely need to say
which one you mean:

  userctl disable alice@example.com 555-123-4567 u_8f2k3j
  userctl get -d bob@example.com
  userctl create --fake 20

Batch commands apply the operation to every identifier concurrently and
report each result on its own line; one identifier failing never stops
the others. The process exits 0 once the batch has settled, even when
individual items failed.

Configuration (directory backend, credentials, locale) is read from the
file named by $USERCTL_CONFIG; $USERCTL_LOCALE overrides the console
language.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagForceEmail bool // -e: treat every identifier as an email address
	flagForcePhone bool // -p: treat every identifier as a phone number
)

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupBatch, Title: "Batch Commands:"},
		&cobra.Group{ID: GroupRecord, Title: "Record Commands:"},
	)

	rootCmd.PersistentFlags().BoolVarP(&flagForceEmail, "email", "e", false,
		"treat every identifier as an email address")
	rootCmd.PersistentFlags().BoolVarP(&flagForcePhone, "phone-number", "p", false,
		"treat every identifier as a phone number")
}

// Execute runs the root command. A returned error is an orchestration
// failure; per-item batch failures never surface here.
func Execute() error {
	return rootCmd.Execute()
}
