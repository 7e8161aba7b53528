package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-analytics/services"
)

// AnalyzeHandler asks the configured analyst about the current series.
func (hb *HandlerBundle) AnalyzeHandler(c *gin.Context) {
	if hb.Analysis == nil {
		JSONError(c, hb.Logger, http.StatusServiceUnavailable, "AI analysis is not configured", "set AI_PROVIDER and its API key")
		return
	}

	report, err := hb.Session.Analyze(c.Request.Context(), hb.Analysis)
	if err != nil {
		if errors.Is(err, services.ErrEmptySeries) {
			JSONError(c, hb.Logger, http.StatusUnprocessableEntity, err.Error(), "upload data first")
			return
		}
		JSONError(c, hb.Logger, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ReportHandler returns the last stored analysis report, empty if none.
func (hb *HandlerBundle) ReportHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"report": hb.Session.Report()})
}
