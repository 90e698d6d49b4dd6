package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/teamboard-api/internal/database"
	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/service"
)

func newCreateSupermanagerCmd(opts *rootOptions) *cobra.Command {
	var req dto.UserCreateRequest

	cmd := &cobra.Command{
		Use:   "create-supermanager",
		Short: "Create an active supermanager account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				return errors.New("--password is required")
			}
			req.ConfirmPassword = req.Password

			db, err := opts.open()
			if err != nil {
				return err
			}
			if err := database.Migrate(db, models.All()...); err != nil {
				return err
			}

			user, err := service.BootstrapSupermanager(cmd.Context(), repository.NewUserRepository(db), service.NewValidator(), req)
			if err != nil {
				return err
			}
			opts.logger.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("supermanager created")
			fmt.Fprintf(cmd.OutOrStdout(), "created supermanager %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password (min 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
