package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"multipiste/config"
	"multipiste/logger"
	"multipiste/server"

	"github.com/spf13/cobra"
)

// app 保存命令之间共享的状态
type app struct {
	envFile string
	cfg     *config.Config
}

// NewRootCmd 构建完整的命令树
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "multipiste",
		Short:         "Multipiste serves per-user multitrack audio libraries over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load(a.envFile)
			return logger.InitLogger(logger.Config{
				Level:      logger.LogLevel(a.cfg.LogLevel),
				OutputPath: a.cfg.LogFile,
				MaxSize:    a.cfg.LogMaxSize,
				MaxBackups: a.cfg.LogMaxBackups,
				MaxAge:     a.cfg.LogMaxAge,
				Compress:   a.cfg.LogCompress,
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Start(cmd.Context(), a.cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", ".env", "path to a .env file (empty to skip)")

	rootCmd.AddCommand(
		newServerCmd(a),
		newTracksCmd(a),
		newWatchCmd(a),
		newMinioCmd(a),
		newPasswdCmd(),
	)
	return rootCmd
}

// Execute executes the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
