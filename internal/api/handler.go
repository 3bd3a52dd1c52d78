// SPDX-License-Identifier: Apache-2.0

// Package api exposes the extraction pipeline and confirmation reconciler
// over HTTP. Routing and request plumbing only; all correctness lives in
// the extract and confirm packages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/amaziapp/shiftsheet/internal/confirm"
	"github.com/amaziapp/shiftsheet/internal/extract"
	"github.com/amaziapp/shiftsheet/internal/metrics"
	"github.com/amaziapp/shiftsheet/internal/models"
	"github.com/amaziapp/shiftsheet/internal/store"
)

// Repository is the slice of the store the handlers need.
type Repository interface {
	CreateUpload(ctx context.Context, filename, fileType string, size int64, resultJSON []byte, needsReview bool) (string, error)
	GetUpload(ctx context.Context, id string) (*store.TimesheetUpload, error)
	MarkUploadStatus(ctx context.Context, id, status string) error
	ListEmployees(ctx context.Context) ([]store.Employee, error)
	ListShifts(ctx context.Context) ([]store.Shift, error)
}

type Handler struct {
	pipeline   *extract.Pipeline
	repo       Repository
	reconciler *confirm.Reconciler
	maxBytes   int64
}

func NewHandler(pipeline *extract.Pipeline, repo Repository, reconciler *confirm.Reconciler, maxBytes int64) *Handler {
	return &Handler{
		pipeline:   pipeline,
		repo:       repo,
		reconciler: reconciler,
		maxBytes:   maxBytes,
	}
}

type uploadResponse struct {
	UploadID string                    `json:"upload_id"`
	Preview  *models.ExtractionPreview `json:"preview"`
}

// UploadTimesheet accepts a multipart upload, runs the extraction pipeline
// and persists the upload with its preview.
func (h *Handler) UploadTimesheet(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	if fileHeader.Size > h.maxBytes {
		metrics.UploadsTotal.WithLabelValues("unknown", "rejected").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds upload size limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}

	started := time.Now()
	preview, err := h.pipeline.Run(c.Request.Context(), content, fileHeader.Filename)
	metrics.ExtractionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, extract.ErrPayloadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		metrics.UploadsTotal.WithLabelValues("unknown", "rejected").Inc()
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	metrics.UploadsTotal.WithLabelValues(string(preview.FileType), "ok").Inc()
	metrics.RecordsExtracted.WithLabelValues("employee").Add(float64(len(preview.Employees)))
	metrics.RecordsExtracted.WithLabelValues("shift").Add(float64(len(preview.Shifts)))

	resultJSON, err := json.Marshal(preview)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot encode preview"})
		return
	}
	uploadID, err := h.repo.CreateUpload(c.Request.Context(), fileHeader.Filename,
		string(preview.FileType), fileHeader.Size, resultJSON, len(preview.NeedsReviewFields) > 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot persist upload"})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{UploadID: uploadID, Preview: preview})
}

type confirmPayload struct {
	Employees []models.EmployeeRecord `json:"employees"`
	Shifts    []models.ShiftRecord    `json:"shifts"`
}

// ConfirmUpload validates the human-edited payload and commits it
// all-or-nothing.
func (h *Handler) ConfirmUpload(c *gin.Context) {
	id := c.Param("id")
	up, err := h.repo.GetUpload(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown upload"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load upload"})
		return
	}
	if up.Status == store.StatusConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "upload already confirmed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}
	if err := confirm.ValidatePayload(body); err != nil {
		metrics.ConfirmTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var payload confirmPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	committed, err := h.reconciler.Confirm(c.Request.Context(), id, payload.Employees, payload.Shifts)
	if err != nil {
		var ce *confirm.ConfirmationError
		if errors.As(err, &ce) && ce.Reason != confirm.ReasonStorage {
			metrics.ConfirmTotal.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ce.Reason, "records": ce.Records})
			return
		}
		metrics.ConfirmTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.MarkUploadStatus(c.Request.Context(), id, store.StatusConfirmed); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "committed but cannot mark upload"})
		return
	}
	metrics.ConfirmTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "committed": committed})
}

func (h *Handler) ListEmployees(c *gin.Context) {
	items, err := h.repo.ListEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list employees"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) ListShifts(c *gin.Context) {
	items, err := h.repo.ListShifts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list shifts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
