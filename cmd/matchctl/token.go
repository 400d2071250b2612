package main

import (
	"fmt"
	"strings"

	"campus-match/internal/database/seeder"
	"campus-match/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	tokenUser   string
	tokenHandle string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development access token",
	Long:  "Signs an access token with JWT_ACCESS_SECRET. --handle picks one of the seeded demo users.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if strings.TrimSpace(cfg.JWT.AccessSecret) == "" {
			return eris.New("JWT_ACCESS_SECRET is not set")
		}

		id, err := tokenSubject(tokenUser, tokenHandle)
		if err != nil {
			return err
		}
		tok, err := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL).GenerateAccessToken(id)
		if err != nil {
			return eris.Wrap(err, "sign token")
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to sign for")
	tokenCmd.Flags().StringVar(&tokenHandle, "handle", "ana", "demo user handle, used when --user is empty")
	rootCmd.AddCommand(tokenCmd)
}

func tokenSubject(user, handle string) (uuid.UUID, error) {
	if strings.TrimSpace(user) != "" {
		id, err := uuid.Parse(strings.TrimSpace(user))
		if err != nil {
			return uuid.Nil, eris.Wrapf(err, "parse --user %q", user)
		}
		return id, nil
	}
	if strings.TrimSpace(handle) == "" {
		return uuid.Nil, eris.New("either --user or --handle is required")
	}
	return seeder.DemoUserID(strings.TrimSpace(handle)), nil
}
