package cache

import (
	"context"

	apierrors "github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend   string // "file", "redis" or "none"
	Dir       string // FileCache directory
	RedisAddr string // RedisCache address (host:port)
	RedisDB   int    // RedisCache database number
}

// Open creates the cache backend named by opts.Backend. An empty backend
// selects the file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, apierrors.New(apierrors.ErrCodeInvalidInput, "file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisConfig{Addr: opts.RedisAddr, DB: opts.RedisDB})
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, apierrors.New(apierrors.ErrCodeUnsupported, "unknown cache backend %q", opts.Backend)
	}
}

func wrapBackendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return apierrors.Wrap(apierrors.ErrCodeInternal, err, "cache %s", op)
}
