package stores

import (
	"context"
	"io"
)

// Store 对象存储接口，头像上传走这里
type Store interface {
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
