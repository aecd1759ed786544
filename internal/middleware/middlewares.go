package middleware

import (
	"github.com/amankumarsingh77/cloud-video-stream/internal/config"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/clerk"
	"github.com/amankumarsingh77/cloud-video-stream/pkg/logger"
)

type MiddlewareManager struct {
	verifier clerk.Verifier
	cfg      *config.Config
	origins  []string
	logger   logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(verifier clerk.Verifier, cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{verifier: verifier, cfg: cfg, origins: origins, logger: logger}
}
