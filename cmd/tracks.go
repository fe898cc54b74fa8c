package cmd

import (
	"encoding/json"
	"fmt"

	"multipiste/core/multitrack"
	"multipiste/server"
	"multipiste/storage"

	"github.com/spf13/cobra"
)

func (a *app) library(cmd *cobra.Command) (*multitrack.Library, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := storage.New(cmd.Context(), a.cfg)
	if err != nil {
		return nil, err
	}
	return multitrack.NewLibrary(store, server.PathsFromConfig(a.cfg)), nil
}

func newTracksCmd(a *app) *cobra.Command {
	var user string

	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "List track ids",
		Long:  `List the track ids of the default track root, or of a user's root with --user.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library(cmd)
			if err != nil {
				return err
			}

			var ids []string
			if user != "" {
				ids, err = lib.ListUserTracks(cmd.Context(), user)
			} else {
				ids, err = lib.ListTracks(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a track as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library(cmd)
			if err != nil {
				return err
			}

			var track any
			if user != "" {
				track, err = lib.UserTrack(cmd.Context(), user, args[0])
			} else {
				track, err = lib.Track(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(track, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	tracksCmd.PersistentFlags().StringVarP(&user, "user", "u", "", "read the user's track root instead of the default one")
	tracksCmd.AddCommand(showCmd)
	tracksCmd.Example = `  # 默认曲库
  multipiste tracks

  # 某个用户的曲库
  multipiste tracks -u kim

  # 查看曲目
  multipiste tracks show song1 -u kim`
	return tracksCmd
}
