package mcp

import (
	"github.com/sirupsen/logrus"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/config"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
	"github.com/Gabzxcv/Syntaxy-FL/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	service domain.AnalysisService
	config  *config.Config
	logger  *logrus.Logger
}

// NewDependencies builds the analysis service from cfg, with the result cache when enabled.
func NewDependencies(cfg *config.Config, logger *logrus.Logger) (*Dependencies, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger = logging.OrDiscard(logger)

	var svc domain.AnalysisService = service.NewAnalysisService(parser.DefaultRegistry(), cfg.Analysis, logger)
	if cfg.Cache.Enabled {
		cached, err := service.NewCachedAnalysisService(svc, cfg.Cache.Size, cfg.Analysis.Mode, logger)
		if err != nil {
			return nil, err
		}
		svc = cached
	}
	return &Dependencies{service: svc, config: cfg, logger: logger}, nil
}

// NewTestDependencies wires a caller-supplied service, for tests.
func NewTestDependencies(svc domain.AnalysisService, cfg *config.Config) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{service: svc, config: cfg, logger: logging.Discard()}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// Service returns the analysis service used by every tool.
func (d *Dependencies) Service() domain.AnalysisService {
	return d.service
}
