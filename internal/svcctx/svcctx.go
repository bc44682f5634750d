// Package svcctx provides service context for dependency injection via
// context, so cmd/masterctl's commands and internal/batch's watcher can
// share one set of long-lived services without threading them through
// every function signature.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/audiobook-master/internal/artifact"
	"github.com/jackzampolin/audiobook-master/internal/config"
	"github.com/jackzampolin/audiobook-master/internal/external"
	"github.com/jackzampolin/audiobook-master/internal/jobs"
	"github.com/jackzampolin/audiobook-master/internal/metrics"
	"github.com/jackzampolin/audiobook-master/internal/pipeline"
	"github.com/jackzampolin/audiobook-master/internal/workdir"
)

// Services holds every long-lived service a command or watcher needs.
// Components extract what they need via the individual extractors.
type Services struct {
	Config    *config.Manager
	Store     *artifact.Store
	Index     *artifact.StatusIndex
	Work      *workdir.Dir
	Pools     *jobs.Pools
	Workspace *jobs.WorkspacePool
	Runner    *pipeline.Runner
	External  *external.Registry
	Metrics   *metrics.Store
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context. Returns
// nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// StoreFrom extracts the artifact store from context.
func StoreFrom(ctx context.Context) *artifact.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// IndexFrom extracts the cross-chapter status index from context.
func IndexFrom(ctx context.Context) *artifact.StatusIndex {
	if s := ServicesFrom(ctx); s != nil {
		return s.Index
	}
	return nil
}

// WorkFrom extracts the working directory layout from context.
func WorkFrom(ctx context.Context) *workdir.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Work
	}
	return nil
}

// PoolsFrom extracts the resource pools from context.
func PoolsFrom(ctx context.Context) *jobs.Pools {
	if s := ServicesFrom(ctx); s != nil {
		return s.Pools
	}
	return nil
}

// WorkspaceFrom extracts the forced-alignment workspace pool from context.
func WorkspaceFrom(ctx context.Context) *jobs.WorkspacePool {
	if s := ServicesFrom(ctx); s != nil {
		return s.Workspace
	}
	return nil
}

// RunnerFrom extracts the pipeline runner from context.
func RunnerFrom(ctx context.Context) *pipeline.Runner {
	if s := ServicesFrom(ctx); s != nil {
		return s.Runner
	}
	return nil
}

// ExternalFrom extracts the external-adapter registry from context.
func ExternalFrom(ctx context.Context) *external.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.External
	}
	return nil
}

// MetricsFrom extracts the metrics store from context.
func MetricsFrom(ctx context.Context) *metrics.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
