package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"donationtracker/config"
	"donationtracker/internal/adapters/auth"
	"donationtracker/internal/domain"
	"donationtracker/internal/repository/postgres"
	"donationtracker/internal/services"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var newUser struct {
	username  string
	email     string
	password  string
	staff     bool
	superuser bool
	groups    []string
}

var createUserCmd = &cobra.Command{
	Use:   "createuser",
	Short: "Create a user account",
	Long: `Create a user account. The API has no signup; accounts are provisioned here.

--superuser makes the user an Admin, --staff an HR user; anyone else is an Employee.

Examples:
  api createuser --username alice --email alice@example.com --password s3cret --superuser
  api createuser --username bob --password s3cret --group Finance --group Volunteers`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateNewUser(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ContextTimeout)
		defer cancel()

		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		svc := services.NewUserService(postgres.NewUserRepository(db), auth.NewBcryptHasher(bcrypt.DefaultCost))
		user, err := svc.CreateUser(ctx, domain.CreateUserParams{
			Username:    newUser.username,
			Email:       newUser.email,
			Password:    newUser.password,
			IsStaff:     newUser.staff,
			IsSuperuser: newUser.superuser,
			Groups:      newUser.groups,
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateUsername) {
				return fmt.Errorf("user %q already exists", newUser.username)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n",
			user.Username, user.ID, domain.RoleOf(user).Code())
		return nil
	},
}

func validateNewUser() error {
	if strings.TrimSpace(newUser.username) == "" {
		return fmt.Errorf("--username is required")
	}
	if newUser.password == "" {
		return fmt.Errorf("--password is required")
	}
	return nil
}

func init() {
	f := createUserCmd.Flags()
	f.StringVar(&newUser.username, "username", "", "login name (required)")
	f.StringVar(&newUser.email, "email", "", "email address for donation receipts")
	f.StringVar(&newUser.password, "password", "", "password (required)")
	f.BoolVar(&newUser.staff, "staff", false, "grant the HR role")
	f.BoolVar(&newUser.superuser, "superuser", false, "grant the Admin role")
	f.StringArrayVar(&newUser.groups, "group", nil, "group membership (repeatable)")
}
