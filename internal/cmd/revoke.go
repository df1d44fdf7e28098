package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/locale"
)

var revokeCmd = &cobra.Command{
	Use:     "revoke <id>...",
	Aliases: []string{"prevent"},
	GroupID: GroupBatch,
	Short:   "Invalidate issued session tokens for the given users",
	Long: `Invalidate all session tokens issued so far for every resolved
record. Users stay enabled and can sign in again; only existing
sessions are cut off.

Example:
  userctl revoke compromised@example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRevoke,
}

func init() {
	rootCmd.AddCommand(revokeCmd)
}

func runRevoke(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	runBatch(ctx, a, args, func(ctx context.Context, userID string) (struct{}, error) {
		return struct{}{}, a.dir.RevokeSessions(ctx, userID)
	}, locale.MsgRevoked)

	return nil
}
