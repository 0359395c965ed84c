package main

import (
	"fmt"
	"sort"

	firebase "firebase.google.com/go/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vitrine/config"
	"vitrine/content"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample content into empty collections",
		Long: `seed fills blog, portfolio, services and team with sample content.
Collections that already have documents are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			ctx := cmd.Context()

			var app *firebase.App
			if cfg.Store.Driver == config.StoreFirestore {
				if app, err = newFirebaseApp(ctx, cfg); err != nil {
					return err
				}
			}
			store, err := openStore(ctx, cfg, app)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := content.Seed(ctx, content.NewCatalog(store))
			if err != nil {
				return err
			}

			names := make([]string, 0, len(res))
			for name := range res {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created\n", name, res[name])
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to seed: collections already have content")
			}
			logger.Info("seed concluído", zap.String("store", cfg.Store.Driver), zap.Any("created", res))
			return nil
		},
	}
}
