package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-analytics/models"
	"hostel-analytics/services"
)

// SeriesHandler returns the current time series snapshot.
func (hb *HandlerBundle) SeriesHandler(c *gin.Context) {
	series := hb.Session.Series()
	if series == nil {
		series = models.TimeSeries{}
	}
	c.JSON(http.StatusOK, gin.H{
		"series":     series,
		"processing": hb.Session.Processing(),
	})
}

// WarningsHandler returns the warnings of the most recent batch.
func (hb *HandlerBundle) WarningsHandler(c *gin.Context) {
	warnings := hb.Session.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"warnings": warnings})
}

// TrendsHandler returns the week-over-week comparison table.
func (hb *HandlerBundle) TrendsHandler(c *gin.Context) {
	series := hb.Session.Series()
	c.JSON(http.StatusOK, gin.H{
		"properties": services.PropertyNames(series),
		"rows":       services.Trends(series),
	})
}

// PropertiesHandler lists the registry so clients can offer an override choice.
func (hb *HandlerBundle) PropertiesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"properties": hb.Session.Registry()})
}
