package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	identityapp "github.com/opsboard/backend/internal/application/identity"
	"github.com/opsboard/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var (
	flagUsername    string
	flagPassword    string
	flagDisplayName string
	flagRole        string
	flagEngineerID  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage login accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a login account (e.g. the first admin)",
	RunE:  runUserCreate,
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVarP(&flagUsername, "username", "u", "", "Login name")
	f.StringVar(&flagPassword, "password", "", "Password (default: $OPS_NEW_USER_PASSWORD)")
	f.StringVar(&flagDisplayName, "name", "", "Display name")
	f.StringVar(&flagRole, "role", "admin", "Role: admin or engineer")
	f.StringVar(&flagEngineerID, "engineer-id", "", "Engineer record to link (engineer accounts)")
	_ = userCreateCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

// requestValidator checks CLI input against the same binding tags the API uses
var requestValidator = func() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}()

func runUserCreate(cmd *cobra.Command, _ []string) error {
	req := identityapp.CreateUserRequest{
		Username:    strings.TrimSpace(flagUsername),
		Password:    flagPassword,
		DisplayName: flagDisplayName,
		Role:        flagRole,
	}
	if req.Password == "" {
		req.Password = os.Getenv("OPS_NEW_USER_PASSWORD")
	}
	if flagEngineerID != "" {
		id, err := uuid.Parse(flagEngineerID)
		if err != nil {
			return fmt.Errorf("invalid engineer id %q", flagEngineerID)
		}
		req.EngineerID = &id
	}
	if err := requestValidator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(e.Field()), e.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	svc := identityapp.NewUserService(
		persistence.NewGormUserRepository(a.db.DB),
		persistence.NewGormEngineerRepository(a.db.DB),
		a.log,
	)
	user, err := svc.Create(cmd.Context(), req)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(user)
	}
	fmt.Printf("  Created %s %q (%s)\n", user.Role, user.Username, user.ID)
	return nil
}
