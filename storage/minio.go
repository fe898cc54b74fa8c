package storage

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"multipiste/core/multitrack"
	"multipiste/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions MinIO 连接参数
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// MinioStore 以存储桶作为曲库，路径映射为对象键
type MinioStore struct {
	client *minio.Client
	bucket string
}

// BucketStats 存储桶统计信息
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// NewMinioStore 创建 MinIO 客户端并确认存储桶存在
func NewMinioStore(ctx context.Context, opts MinioOptions) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("检查存储桶失败: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("存储桶 %s 不存在", opts.Bucket)
	}

	logger.Info("MinIO 客户端初始化成功",
		logger.String("endpoint", opts.Endpoint),
		logger.String("bucket", opts.Bucket))

	return &MinioStore{client: client, bucket: opts.Bucket}, nil
}

// objectKey 将文件系统风格的路径转换为对象键
func objectKey(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// dirPrefix 返回列出目录子项时使用的前缀
func dirPrefix(dir string) string {
	key := objectKey(dir)
	if key == "" {
		return ""
	}
	return key + "/"
}

// childName 从对象键（或公共前缀）中取出直接子项名称
func childName(prefix, key string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), "/")
}

// List 列出目录的直接子项；没有任何对象的前缀视为不存在
func (s *MinioStore) List(ctx context.Context, dir string) ([]string, error) {
	prefix := dirPrefix(dir)

	// 提前返回时取消 ListObjects 的后台协程
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var names []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("列出对象失败 %s: %w", prefix, object.Err)
		}
		if name := childName(prefix, object.Key); name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", multitrack.ErrNotFound, dir)
	}
	slices.Sort(names)
	return names, nil
}

// Open 打开对象用于流式读取
func (s *MinioStore) Open(ctx context.Context, p string) (*multitrack.File, error) {
	key := objectKey(p)

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyMinio(err, key)
	}
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, classifyMinio(err, key)
	}

	return &multitrack.File{ReadCloser: object, Size: info.Size, ModTime: info.LastModified}, nil
}

// Stats 统计前缀下的对象数量与总大小
func (s *MinioStore) Stats(ctx context.Context, prefix string) (*BucketStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := &BucketStats{}
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    objectKey(prefix),
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("列出对象失败: %w", object.Err)
		}
		stats.TotalObjects++
		stats.TotalSize += object.Size
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}
	}
	return stats, nil
}

func classifyMinio(err error, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", multitrack.ErrNotFound, key)
	}
	return fmt.Errorf("读取对象失败 %s: %w", key, err)
}
