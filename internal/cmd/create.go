package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/batch"
	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/fake"
	"github.com/jtessler/userctl/internal/identifier"
	"github.com/jtessler/userctl/internal/locale"
	"github.com/jtessler/userctl/internal/prompt"
	"github.com/jtessler/userctl/internal/style"
)

var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"add", "new"},
	GroupID: GroupRecord,
	Short:   "Create a user record",
	Long: `Create one record through the interactive editor, or generate
synthetic records with --fake.

Synthetic records draw names from the configured locale's name pool and
are created concurrently; a rejected record is reported and does not
stop the rest.

Examples:
  userctl create
  userctl create --fake 20
  userctl new -f 5`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

// createFake is the number of synthetic records to generate; 0 means
// interactive creation.
var createFake int

func init() {
	createCmd.Flags().IntVarP(&createFake, "fake", "f", 0,
		"generate this many synthetic records instead of prompting")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if createFake < 0 {
		return fmt.Errorf("--fake must be positive, got %d", createFake)
	}
	if createFake > 0 {
		return runCreateFake(ctx, a, createFake)
	}
	return runCreateInteractive(ctx, a)
}

// runCreateFake generates n synthetic records and creates them through the
// batch runner, so a rejected record is isolated like any other batch item.
func runCreateFake(ctx context.Context, a *app, n int) error {
	gen := fake.New(locale.Match(a.cfg.ActiveLocale()))
	batchFields := gen.Batch(n)

	// Generated emails are unique, so they key the pending records. The
	// records do not exist yet; resolution is the identity step here.
	pending := make(map[string]directory.CreateFields, n)
	idents := make([]identifier.Identifier, n)
	for i, fields := range batchFields {
		pending[fields.Email] = fields
		idents[i] = identifier.Identifier{Raw: fields.Email, Kind: identifier.KindEmail}
	}

	outcomes := runBatchWith(ctx, a, idents,
		func(_ context.Context, ident identifier.Identifier) (string, error) {
			return ident.Raw, nil
		},
		func(ctx context.Context, key string) (*directory.UserRecord, error) {
			return a.dir.CreateUser(ctx, pending[key])
		}, locale.MsgCreated)

	created := len(outcomes) - batch.CountFailed(outcomes)
	fmt.Println(a.printer.Sprintf(locale.MsgCreatedFake, created))
	return nil
}

// runCreateInteractive opens the editor with empty fields and creates the
// resulting record.
func runCreateInteractive(ctx context.Context, a *app) error {
	if !prompt.IsInteractive() {
		return errors.New("stdin is not a terminal; use --fake or run interactively")
	}

	res, err := prompt.Edit("Create user", []prompt.Field{
		{Key: "email", Label: "Email", Placeholder: "alice@example.com"},
		{Key: "phone", Label: "Phone", Placeholder: "555-123-4567"},
		{Key: "display_name", Label: "Display name", Placeholder: "Alice Liddell"},
		{Key: "verified", Label: "Verified", Value: "false", Placeholder: "true/false"},
	})
	if err != nil {
		return err
	}
	if res.Aborted {
		fmt.Println(style.Dim.Render(a.printer.Sprintf(locale.MsgAborted)))
		return nil
	}

	verified, err := strconv.ParseBool(res.Values["verified"])
	if err != nil {
		return fmt.Errorf("verified must be true or false, got %q", res.Values["verified"])
	}

	rec, err := a.dir.CreateUser(ctx, directory.CreateFields{
		Email:       res.Values["email"],
		PhoneNumber: res.Values["phone"],
		DisplayName: res.Values["display_name"],
		Verified:    verified,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	fmt.Printf("%s %s\n", style.SuccessPrefix, a.printer.Sprintf(locale.MsgCreated, rec.ID))
	return nil
}
