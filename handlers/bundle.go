package handlers

import (
	"hostel-analytics/services"
	"hostel-analytics/utils"
)

// HandlerBundle groups the dashboard endpoint handlers and what they share.
type HandlerBundle struct {
	Session *services.Session
	// Analysis is nil when no AI provider is configured.
	Analysis *services.AnalysisService
	Logger   *utils.Logger

	MaxUploadBytes int64
}

// NewHandlerBundle wires the handlers to one dashboard session.
func NewHandlerBundle(session *services.Session, analysis *services.AnalysisService, logger *utils.Logger) *HandlerBundle {
	return &HandlerBundle{
		Session:        session,
		Analysis:       analysis,
		Logger:         logger,
		MaxUploadBytes: 32 << 20,
	}
}
