package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/locale"
)

var disableCmd = &cobra.Command{
	Use:     "disable <id>...",
	Aliases: []string{"ban", "suspend"},
	GroupID: GroupBatch,
	Short:   "Block sign-in for the given users",
	Long: `Set the disabled flag on every resolved record, blocking sign-in.

Disabling an already-disabled user succeeds without change.

Examples:
  userctl disable alice@example.com
  userctl disable -p "555 123 4567" "555 765 4321"
  userctl ban u_8f2k3j bob@example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDisable,
}

var enableCmd = &cobra.Command{
	Use:     "enable <id>...",
	Aliases: []string{"unban"},
	GroupID: GroupBatch,
	Short:   "Restore sign-in for the given users",
	Long: `Clear the disabled flag on every resolved record, restoring sign-in.

Example:
  userctl enable alice@example.com u_8f2k3j`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnable,
}

func init() {
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(enableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	return runSetDisabled(cmd.Context(), args, true, locale.MsgDisabled)
}

func runEnable(cmd *cobra.Command, args []string) error {
	return runSetDisabled(cmd.Context(), args, false, locale.MsgEnabled)
}

func runSetDisabled(ctx context.Context, args []string, disabled bool, successMsg string) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	runBatch(ctx, a, args, func(ctx context.Context, userID string) (*directory.UserRecord, error) {
		return a.dir.SetDisabled(ctx, userID, disabled)
	}, successMsg)

	return nil
}
