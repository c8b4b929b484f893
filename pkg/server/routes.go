// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/internal/constants"
	"github.com/stratastor/warren/pkg/jail"
	jailapi "github.com/stratastor/warren/pkg/jail/api"
	"github.com/stratastor/warren/pkg/jail/iocage"
	"github.com/stratastor/warren/pkg/jail/locker"
	"github.com/stratastor/warren/pkg/jobs"
	"github.com/stratastor/warren/pkg/peers"
	"github.com/stratastor/warren/pkg/zfs/command"
	"github.com/stratastor/warren/pkg/zfs/pool"
)

// handles holds the wired components that need teardown on shutdown
type handles struct {
	jobs  *jobs.Manager
	peers *peers.Store
}

func (h *handles) Close() {
	if h.jobs != nil {
		_ = h.jobs.Close()
	}
	if h.peers != nil {
		_ = h.peers.Close()
	}
}

func registerRoutes(engine *gin.Engine, cfg *config.Config, l logger.Logger) (*handles, error) {
	logCfg := config.NewLoggerConfig(cfg)
	executor := command.NewCommandExecutor(cfg.Jail.UseSudo, logCfg)

	backendLogger, err := logger.NewTag(logCfg, "iocage")
	if err != nil {
		return nil, err
	}
	backend := iocage.NewManager(executor, backendLogger)

	locks := locker.New(cfg.Jobs.RejectConcurrent)

	jobsLogger, err := logger.NewTag(logCfg, "jobs")
	if err != nil {
		return nil, err
	}
	jobManager := jobs.NewManager(locks, jobsLogger)

	retention, err := time.ParseDuration(cfg.Jobs.Retention)
	if err != nil {
		l.Warn("Invalid jobs retention, using 24h", "value", cfg.Jobs.Retention)
		retention = 24 * time.Hour
	}
	if err := jobManager.StartReaper(retention); err != nil {
		return nil, err
	}

	jailLogger, err := logger.NewTag(logCfg, "jail")
	if err != nil {
		return nil, err
	}
	jailManager := jail.NewManager(backend, locks, jobManager, jailLogger,
		jail.FetchDefaults{
			Server:   cfg.Jail.Fetch.Server,
			User:     cfg.Jail.Fetch.User,
			Password: cfg.Jail.Fetch.Password,
			Files:    cfg.Jail.Fetch.Files,
		})

	poolLogger, err := logger.NewTag(logCfg, "pool")
	if err != nil {
		return nil, err
	}
	activator := pool.NewActivator(pool.NewManager(executor), poolLogger)

	peersLogger, err := logger.NewTag(logCfg, "peers")
	if err != nil {
		return nil, err
	}
	peerStore, err := peers.NewStore(cfg.Peers.DBPath, peersLogger)
	if err != nil {
		return nil, err
	}

	v1 := engine.Group(constants.APIBase)
	{
		jailapi.NewJailHandler(jailManager).RegisterRoutes(v1)
		jailapi.NewReleaseHandler(jailManager).RegisterRoutes(v1)
		pool.NewHandler(activator).RegisterRoutes(v1)
		jobs.NewHandler(jobManager).RegisterRoutes(v1)
		peers.NewHandler(peerStore).RegisterRoutes(v1)
	}

	return &handles{jobs: jobManager, peers: peerStore}, nil
}
