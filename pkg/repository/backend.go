package repository

import (
	"context"
	"strings"

	"github.com/umputun/sourcedeck/pkg/store"
)

// Backend is a key/value storage with a connection lifecycle
type Backend interface {
	store.KV
	Ping(ctx context.Context) error
	Close() error
}

// Open picks the backend by DSN: "memory://" keeps values in process memory,
// postgres:// and postgresql:// use postgres, anything else is a sqlite DSN
func Open(ctx context.Context, cfg Config) (Backend, error) {
	switch {
	case strings.HasPrefix(cfg.DSN, "memory://"):
		return &memoryBackend{Memory: store.NewMemory()}, nil
	case strings.HasPrefix(cfg.DSN, "postgres://"), strings.HasPrefix(cfg.DSN, "postgresql://"):
		pg, err := NewPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		repos, err := NewRepositories(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repos, nil
	}
}

// Kind names the backend for status output
func Kind(b Backend) string {
	switch b.(type) {
	case *memoryBackend:
		return "memory"
	case *Postgres:
		return "postgres"
	case *Repositories:
		return "sqlite"
	default:
		return "unknown"
	}
}

type memoryBackend struct {
	*store.Memory
}

func (m *memoryBackend) Ping(context.Context) error { return nil }
func (m *memoryBackend) Close() error               { return nil }
