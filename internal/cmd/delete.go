package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/locale"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"remove"},
	GroupID: GroupBatch,
	Short:   "Permanently remove the given users",
	Long: `Permanently remove every resolved record from the directory.

There is no undo. Records that fail to resolve are reported and skipped;
the rest are still deleted.

Examples:
  userctl delete old-account@example.com
  userctl remove u_8f2k3j u_9qm4xw`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	runBatch(ctx, a, args, func(ctx context.Context, userID string) (struct{}, error) {
		return struct{}{}, a.dir.DeleteUser(ctx, userID)
	}, locale.MsgDeleted)

	return nil
}
