package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"vibeboxing/internal/client"
	"vibeboxing/internal/model"
)

func (a *app) newRegisterCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.s.store.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}
			cmd.Printf("Welcome, %s! You are signed in as %s.\n", a.s.store.State().User.Name, email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.s.store.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			cmd.Printf("Signed in as %s.\n", a.s.store.State().User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := client.NewFileCredentialStore(a.s.cfg.Cache).Load()
			if err == nil && creds != nil {
				a.s.api.SetToken(creds.Token)
			}
			a.s.store.Logout(cmd.Context())
			cmd.Println("Signed out.")
			return nil
		},
	}
}

func (a *app) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.s.store.Init(cmd.Context()); err != nil {
				return err
			}
			st := a.s.store.State()
			if st.Status != client.StatusAuthenticated {
				cmd.Println("Not signed in.")
				return nil
			}
			printUser(cmd, st.User)
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, u *model.User) {
	cmd.Printf("%s <%s>\n", u.Name, u.Email)
	row := func(label, value string) {
		if value != "" {
			cmd.Printf("  %-8s %s\n", label+":", value)
		}
	}
	if u.Age != nil {
		row("age", fmt.Sprint(*u.Age))
	}
	row("phone", u.Phone)
	row("city", strings.Trim(u.City+", "+u.State, ", "))
	row("gym", u.Gym)
	if u.Weight.Valid {
		row("weight", u.Weight.Decimal.String()+" kg")
	}
	if u.Height.Valid {
		row("height", u.Height.Decimal.String()+" m")
	}
}

func (a *app) newForgotPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a temporary password by email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.s.store.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return err
			}
			cmd.Println(res.Message)
			if res.TempPassword != "" {
				cmd.Printf("Temporary password: %s\n", res.TempPassword)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var (
		update                        model.ProfileUpdate
		name, phone, city, state, gym string
		image, weight, height         string
		age                           int
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; omitted flags keep their value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			flags := cmd.Flags()
			str := func(flag string, v *string) *string {
				if flags.Changed(flag) {
					return v
				}
				return nil
			}
			update.Name = str("name", &name)
			update.Phone = str("phone", &phone)
			update.City = str("city", &city)
			update.State = str("state", &state)
			update.Gym = str("gym", &gym)
			update.ProfileImage = str("image", &image)
			if flags.Changed("age") {
				update.Age = &age
			}
			var err error
			if update.Weight, err = parseDecimal(flags.Changed("weight"), weight); err != nil {
				return fmt.Errorf("--weight: %w", err)
			}
			if update.Height, err = parseDecimal(flags.Changed("height"), height); err != nil {
				return fmt.Errorf("--height: %w", err)
			}

			user, err := a.s.store.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return err
			}
			printUser(cmd, user)
			return nil
		},
	}
	f := set.Flags()
	f.StringVar(&name, "name", "", "name")
	f.StringVar(&phone, "phone", "", "phone number")
	f.IntVar(&age, "age", 0, "age in years")
	f.StringVar(&city, "city", "", "city")
	f.StringVar(&state, "state", "", "state")
	f.StringVar(&gym, "gym", "", "gym")
	f.StringVar(&image, "image", "", "profile image URL")
	f.StringVar(&weight, "weight", "", "weight in kg")
	f.StringVar(&height, "height", "", "height in m")

	cmd.AddCommand(set)
	return cmd
}

func parseDecimal(changed bool, raw string) (decimal.NullDecimal, error) {
	if !changed {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func (a *app) newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage your password",
	}
	var current, next string
	change := &cobra.Command{
		Use:   "change",
		Short: "Change your password; other devices are signed out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := a.s.store.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			cmd.Println("Password changed.")
			return nil
		},
	}
	change.Flags().StringVar(&current, "current", "", "current password")
	change.Flags().StringVar(&next, "new", "", "new password (at least 6 characters)")
	_ = change.MarkFlagRequired("current")
	_ = change.MarkFlagRequired("new")
	cmd.AddCommand(change)
	return cmd
}

func (a *app) newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	var confirm bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and all of its combos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("this deletes every combo too; pass --yes to confirm")
			}
			st, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.s.store.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			cmd.Printf("Account %s deleted.\n", st.User.Email)
			return nil
		},
	}
	del.Flags().BoolVar(&confirm, "yes", false, "confirm deletion")
	cmd.AddCommand(del)
	return cmd
}
