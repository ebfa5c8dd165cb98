package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const defaultPassword = "password"

var errUserExists = errors.New("user already exists")

var fixtures = []struct {
	email    string
	password string
	roles    []string
}{
	{"staff@staff.com", "staff123", []string{"ROLE_STAFF"}},
}

// operator is the actor recorded for changes made from the command line.
var operator = access.Actor{Roles: access.NewSet(access.RoleAdmin)}

type tool struct {
	users user.Repository
	tx    db.Transactor
	audit audit.Recorder
}

func newRootCmd(t *tool) *cobra.Command {
	root := &cobra.Command{
		Use:          "usertool",
		Short:        "Manage clinic accounts from the command line",
		SilenceUsage: true,
	}

	var password string
	createInactive := &cobra.Command{
		Use:   "create-inactive <email>",
		Short: "Create an inactive ROLE_USER account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := t.create(cmd.Context(), args[0], password, nil, models.UserStatusInactive)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created inactive user: %s\n", u.Email)
			return nil
		},
	}
	createInactive.Flags().StringVar(&password, "password", defaultPassword, "initial password")

	var (
		createPassword string
		createRoles    []string
		createDisabled bool
	)
	create := &cobra.Command{
		Use:   "create <email>",
		Short: "Create an account with the given roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := models.UserStatusActive
			if createDisabled {
				status = models.UserStatusInactive
			}
			u, err := t.create(cmd.Context(), args[0], createPassword, createRoles, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user: %s [%s] %s\n", u.Email, u.Roles, u.Status)
			return nil
		},
	}
	create.Flags().StringVar(&createPassword, "password", "", "initial password (at least 6 characters)")
	create.Flags().StringSliceVar(&createRoles, "roles", nil, "comma separated roles, e.g. admin,staff")
	create.Flags().BoolVar(&createDisabled, "inactive", false, "create the account disabled")
	_ = create.MarkFlagRequired("password")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Create the default staff account when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := t.seed(cmd.Context())
			for _, u := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded user: %s [%s]\n", u.Email, u.Roles)
			}
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to seed")
			}
			return nil
		},
	}

	testLogin := &cobra.Command{
		Use:   "test-login <email>",
		Short: "Report whether an account may sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := t.find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if u.IsActive() {
				fmt.Fprintf(cmd.OutOrStdout(), "User %s is ACTIVE and can login\n", u.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "User %s is INACTIVE and cannot login\n", u.Email)
			}
			return nil
		},
	}

	toggleStatus := &cobra.Command{
		Use:   "toggle-status <email>",
		Short: "Flip an account between active and inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := t.toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s status changed from %s to %s\n", user.NormalizeEmail(args[0]), from, to)
			return nil
		},
	}

	root.AddCommand(create, createInactive, seed, testLogin, toggleStatus)
	return root
}

func (t *tool) find(ctx context.Context, email string) (*models.User, error) {
	u, err := t.users.FindUserByEmail(ctx, user.NormalizeEmail(email))
	if httperr.IsKind(err, httperr.KindNotFound) {
		return nil, errors.New("user does not exist")
	}
	return u, err
}

func (t *tool) create(ctx context.Context, email, password string, roleNames []string, status string) (*models.User, error) {
	email = user.NormalizeEmail(email)
	if err := user.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := user.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := user.ValidateStatus(status); err != nil {
		return nil, err
	}
	roles, err := access.ParseSet(roleNames)
	if err != nil {
		return nil, err
	}

	hash, err := user.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		Status:       status,
	}

	err = t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		taken, err := t.users.EmailTaken(ctx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return errUserExists
		}
		if err := t.users.CreateUser(ctx, u); err != nil {
			return err
		}
		t.audit.Record(ctx, operator, audit.VerbCreate, audit.EntityUser, u.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// seed creates the fixture accounts that are missing and returns the ones
// it created.
func (t *tool) seed(ctx context.Context) ([]*models.User, error) {
	var created []*models.User
	for _, f := range fixtures {
		u, err := t.create(ctx, f.email, f.password, f.roles, models.UserStatusActive)
		if errors.Is(err, errUserExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", f.email, err)
		}
		created = append(created, u)
	}
	return created, nil
}

func (t *tool) toggle(ctx context.Context, email string) (from, to string, err error) {
	err = t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := t.find(ctx, email)
		if err != nil {
			return err
		}

		from = u.Status
		to = models.UserStatusActive
		if u.IsActive() {
			to = models.UserStatusInactive
		}
		u.Status = to

		if err := t.users.UpdateUser(ctx, u); err != nil {
			return fmt.Errorf("update %s: %w", u.Email, err)
		}
		t.audit.Record(ctx, operator, audit.VerbUpdate, audit.EntityUser, u.ID)
		return nil
	})
	return from, to, err
}
