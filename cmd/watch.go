package cmd

import (
	"context"
	"errors"
	"fmt"

	"multipiste/core/watch"
	"multipiste/logger"
	"multipiste/server"

	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var users []string

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Log tracks added to or removed from the library",
		Long:  `Watch the default track root (and the roots of the given users) and log every track directory that appears or disappears. Local storage only.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := server.PathsFromConfig(a.cfg)
			roots := []string{paths.DefaultRoot}
			for _, u := range users {
				root, err := paths.UserTrackRoot(u)
				if err != nil {
					return err
				}
				roots = append(roots, root)
			}

			w, err := watch.New(roots...)
			if err != nil {
				return err
			}
			defer w.Close()

			logger.Info("Watching track roots", logger.Strings("roots", roots))
			err = w.Run(cmd.Context(), func(e watch.Event) {
				logger.Info("Track "+string(e.Op),
					logger.String("root", e.Root),
					logger.String("track", e.Track))
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", e.Op, e.Root, e.Track)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	watchCmd.Flags().StringSliceVarP(&users, "user", "u", nil, "also watch these users' roots")
	return watchCmd
}
