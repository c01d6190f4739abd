package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chargehub/config"
	recordsRepo "chargehub/database/repository/records"
	"chargehub/services/sweep"
	"chargehub/utils"
)

// SweepHandler exposes the reconciliation job over HTTP for operators:
// inspect the last pass, page through history, or trigger a pass by hand.
type SweepHandler struct {
	Service sweep.SweepService
	Records recordsRepo.SweepRecordRepository // may be nil when history is disabled
	Logger  *zap.Logger
}

func NewSweepHandler(svc sweep.SweepService, records recordsRepo.SweepRecordRepository, logger *zap.Logger) *SweepHandler {
	return &SweepHandler{
		Service: svc,
		Records: records,
		Logger:  logger,
	}
}

// RunHandler triggers one reconciliation pass immediately.
func (h *SweepHandler) RunHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.AppConfig.SweepTimeout)
	defer cancel()

	res, err := h.Service.Run(ctx, time.Now().UTC())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "sweep pass failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// StatusHandler reports the outcome of the most recent pass.
func (h *SweepHandler) StatusHandler(c *gin.Context) {
	res, ok := h.Service.LastResult()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "no sweep pass has completed yet"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// HistoryHandler returns persisted pass records, newest first.
func (h *SweepHandler) HistoryHandler(c *gin.Context) {
	if h.Records == nil {
		utils.JSONError(c, http.StatusNotImplemented, "sweep history disabled", "no history database configured")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = parsed
	}

	records, err := h.Records.Latest(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch sweep history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
