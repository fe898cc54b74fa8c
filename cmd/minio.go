package cmd

import (
	"fmt"
	"time"

	"multipiste/storage"

	"github.com/spf13/cobra"
)

func newMinioCmd(a *app) *cobra.Command {
	var (
		minioPrefix string
		minioStats  bool
	)

	minioCmd := &cobra.Command{
		Use:   "minio",
		Short: "MinIO 曲库查看",
		Long:  `列出 MinIO 存储桶中某个前缀下的曲目目录，或显示统计信息。前缀默认为 TRACKS_PATH。`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := storage.MinioOptionsFromConfig(a.cfg)
			if opts.Endpoint == "" {
				return fmt.Errorf("MINIO_ENDPOINT is not set")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "MinIO配置: %s, Bucket: %s\n", opts.Endpoint, opts.Bucket)

			store, err := storage.NewMinioStore(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("无法连接到MinIO: %w", err)
			}

			prefix := minioPrefix
			if prefix == "" {
				prefix = a.cfg.TracksPath
			}

			if minioStats {
				stats, err := store.Stats(cmd.Context(), prefix)
				if err != nil {
					return fmt.Errorf("获取存储桶统计信息失败: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "对象数量: %d\n", stats.TotalObjects)
				fmt.Fprintf(cmd.OutOrStdout(), "总大小: %.2f MB\n", float64(stats.TotalSize)/1024/1024)
				fmt.Fprintf(cmd.OutOrStdout(), "最后修改时间: %s\n", stats.LastModified.Format(time.RFC3339))
				return nil
			}

			names, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return fmt.Errorf("列出文件失败: %w", err)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "要列出的目录前缀")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "显示前缀下的统计信息")

	minioCmd.Example = `  # 列出默认曲库
  multipiste minio

  # 列出某个用户的曲库
  multipiste minio -p "kim/files/multipiste"

  # 显示统计信息
  multipiste minio -s`
	return minioCmd
}
