package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vitrine/auth"
	"vitrine/config"
)

type tokenFlags struct {
	uid   string
	email string
	name  string
	admin bool
	ttl   time.Duration
}

// newTokenCmd emite tokens de login para auth.mode=jwt. O token vai no
// corpo de POST /api/auth/session como idToken.
func newTokenCmd() *cobra.Command {
	var f tokenFlags
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a login token for auth.mode=jwt",
		Example: `  vitrine token --uid ana --email ana@example.com --admin
  VITRINE_AUTH_JWT_SECRET=... vitrine token --uid bot --ttl 15m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			tok, err := mintToken(cfg, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.uid, "uid", "", "subject (user id)")
	cmd.Flags().StringVar(&f.email, "email", "", "email claim")
	cmd.Flags().StringVar(&f.name, "name", "", "display name claim")
	cmd.Flags().BoolVar(&f.admin, "admin", false, "set the admin claim (auth.admin_claim)")
	cmd.Flags().DurationVar(&f.ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}

func mintToken(cfg *config.Config, f tokenFlags) (string, error) {
	if cfg.Auth.Mode != config.AuthJWT {
		return "", fmt.Errorf("token requires auth.mode=jwt (current: %s)", cfg.Auth.Mode)
	}
	if f.uid == "" {
		return "", errors.New("--uid is required")
	}
	p, err := auth.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		return "", err
	}
	id := auth.Identity{UID: f.uid, Email: f.email, Name: f.name}
	if f.admin {
		id.Claims = map[string]any{cfg.Auth.AdminClaim: true}
	}
	return p.Mint(id, f.ttl)
}
