package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-analytics/models"
	"hostel-analytics/services"
)

// PasteRequest is the body of POST /api/paste.
type PasteRequest struct {
	Data      string `json:"data" binding:"required"`
	Property  string `json:"property"`
	WeekStart string `json:"week_start" binding:"omitempty,datetime=2006-01-02"`
}

// IngestResponse reports the merged batch together with the resulting series.
type IngestResponse struct {
	Result   *models.BatchResult `json:"result"`
	Series   models.TimeSeries   `json:"series"`
	Warnings []string            `json:"warnings"`
}

// UploadHandler ingests a multipart batch of spreadsheets (field files[]).
func (hb *HandlerBundle) UploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, hb.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		JSONError(c, hb.Logger, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}

	headers := form.File["files[]"]
	if len(headers) == 0 {
		headers = form.File["files"]
	}

	blobs := make([]models.FileBlob, 0, len(headers))
	for _, fh := range headers {
		data, err := readFormFile(fh)
		if err != nil {
			JSONError(c, hb.Logger, http.StatusBadRequest, "Could not read uploaded file", err.Error())
			return
		}
		blobs = append(blobs, models.FileBlob{Name: fh.Filename, Data: data})
	}

	ov := services.Overrides{
		Property:  c.PostForm("property"),
		WeekStart: c.PostForm("week_start"),
	}
	result, err := hb.Session.ProcessFiles(c.Request.Context(), blobs, ov)
	if err != nil {
		JSONError(c, hb.Logger, batchErrorStatus(err), batchErrorMessage(err), err.Error())
		return
	}

	hb.respondIngest(c, result)
}

// PasteHandler ingests a pasted HTML or tab-separated table for one property.
func (hb *HandlerBundle) PasteHandler(c *gin.Context) {
	var req PasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, hb.Logger, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	ov := services.Overrides{Property: req.Property, WeekStart: req.WeekStart}
	result, err := hb.Session.ProcessPaste(c.Request.Context(), req.Data, ov)
	if err != nil {
		JSONError(c, hb.Logger, batchErrorStatus(err), batchErrorMessage(err), err.Error())
		return
	}

	hb.respondIngest(c, result)
}

func (hb *HandlerBundle) respondIngest(c *gin.Context, result *models.BatchResult) {
	c.JSON(http.StatusOK, IngestResponse{
		Result:   result,
		Series:   hb.Session.Series(),
		Warnings: result.Warnings,
	})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
