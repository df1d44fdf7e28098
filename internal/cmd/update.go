package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
	"github.com/jtessler/userctl/internal/locale"
	"github.com/jtessler/userctl/internal/prompt"
	"github.com/jtessler/userctl/internal/style"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"change"},
	GroupID: GroupRecord,
	Short:   "Edit one user's record fields",
	Long: `Edit the fields of a single resolved record.

With field flags, the named fields are updated directly. Without flags,
an interactive editor opens pre-filled with the current values (requires
a terminal).

Examples:
  userctl update alice@example.com --display-name "Alice Liddell"
  userctl update u_8f2k3j --verified=true --new-email alice@corp.example
  userctl update alice@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var (
	updateEmail       string
	updatePhone       string
	updateDisplayName string
	updateVerified    bool
	updateDisabled    bool
)

func init() {
	updateCmd.Flags().StringVar(&updateEmail, "new-email", "", "replace the email address")
	updateCmd.Flags().StringVar(&updatePhone, "new-phone", "", "replace the phone number")
	updateCmd.Flags().StringVar(&updateDisplayName, "display-name", "", "replace the display name")
	updateCmd.Flags().BoolVar(&updateVerified, "verified", false, "set the verified flag")
	updateCmd.Flags().BoolVar(&updateDisabled, "disabled", false, "set the disabled flag")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	arg := args[0]
	ident := identifier.Identifier{Raw: arg, Kind: identifier.Classify(arg, a.hints)}
	rec, err := a.dir.UserByIdentifier(ctx, ident)
	if err != nil {
		return err
	}

	fields := updateFieldsFromFlags(cmd)

	if fields.Empty() {
		fields, err = updateFieldsFromForm(a, rec)
		if err != nil {
			return err
		}
		if fields == nil {
			// Operator aborted the editor.
			fmt.Println(style.Dim.Render(a.printer.Sprintf(locale.MsgAborted)))
			return nil
		}
	}

	if fields.Empty() {
		fmt.Println(a.printer.Sprintf(locale.MsgNothingToUpdate))
		return nil
	}

	updated, err := a.dir.UpdateUser(ctx, rec.ID, *fields)
	if err != nil {
		return fmt.Errorf("updating %q: %w", arg, err)
	}

	fmt.Printf("%s %s\n", style.SuccessPrefix, a.printer.Sprintf(locale.MsgUpdated, updated.ID))
	return nil
}

// updateFieldsFromFlags builds the partial update from whichever field
// flags the operator actually set.
func updateFieldsFromFlags(cmd *cobra.Command) *directory.UpdateFields {
	var fields directory.UpdateFields

	if cmd.Flags().Changed("new-email") {
		fields.Email = &updateEmail
	}
	if cmd.Flags().Changed("new-phone") {
		fields.PhoneNumber = &updatePhone
	}
	if cmd.Flags().Changed("display-name") {
		fields.DisplayName = &updateDisplayName
	}
	if cmd.Flags().Changed("verified") {
		fields.Verified = &updateVerified
	}
	if cmd.Flags().Changed("disabled") {
		fields.Disabled = &updateDisabled
	}

	return &fields
}

// updateFieldsFromForm opens the interactive editor pre-filled with the
// record's current values and diffs the result against them. A nil return
// with nil error means the operator aborted.
func updateFieldsFromForm(a *app, rec *directory.UserRecord) (*directory.UpdateFields, error) {
	if !prompt.IsInteractive() {
		return nil, errors.New("no field flags given and stdin is not a terminal")
	}

	res, err := prompt.Edit("Edit user "+rec.ID, []prompt.Field{
		{Key: "email", Label: "Email", Value: rec.Email},
		{Key: "phone", Label: "Phone", Value: rec.PhoneNumber},
		{Key: "display_name", Label: "Display name", Value: rec.DisplayName},
		{Key: "verified", Label: "Verified", Value: strconv.FormatBool(rec.Verified), Placeholder: "true/false"},
		{Key: "disabled", Label: "Disabled", Value: strconv.FormatBool(rec.Disabled), Placeholder: "true/false"},
	})
	if err != nil {
		return nil, err
	}
	if res.Aborted {
		return nil, nil
	}

	return diffUpdateFields(rec, res.Values)
}

// diffUpdateFields turns edited form values into a partial update,
// touching only fields that differ from the record.
func diffUpdateFields(rec *directory.UserRecord, values map[string]string) (*directory.UpdateFields, error) {
	var fields directory.UpdateFields

	if v := values["email"]; v != rec.Email {
		fields.Email = &v
	}
	if v := values["phone"]; v != rec.PhoneNumber {
		fields.PhoneNumber = &v
	}
	if v := values["display_name"]; v != rec.DisplayName {
		fields.DisplayName = &v
	}

	verified, err := strconv.ParseBool(values["verified"])
	if err != nil {
		return nil, fmt.Errorf("verified must be true or false, got %q", values["verified"])
	}
	if verified != rec.Verified {
		fields.Verified = &verified
	}

	disabled, err := strconv.ParseBool(values["disabled"])
	if err != nil {
		return nil, fmt.Errorf("disabled must be true or false, got %q", values["disabled"])
	}
	if disabled != rec.Disabled {
		fields.Disabled = &disabled
	}

	return &fields, nil
}
