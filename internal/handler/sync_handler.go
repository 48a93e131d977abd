package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pomflow/internal/middleware"
	"pomflow/internal/service"
	"pomflow/internal/syncapi"
)

type SyncHandler struct {
	syncService *service.SyncService
}

func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

func (h *SyncHandler) ListTasks(c *gin.Context) {
	tasks, apiErr := h.syncService.ListTasks(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.TasksEnvelope{Tasks: tasks})
}

func (h *SyncHandler) ReplaceTasks(c *gin.Context) {
	var req syncapi.TasksEnvelope
	if !bindJSON(c, &req) {
		return
	}

	tasks, apiErr := h.syncService.ReplaceTasks(c.Request.Context(), middleware.UserID(c), req.Tasks)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.TasksEnvelope{Tasks: tasks})
}

func (h *SyncHandler) UpsertTask(c *gin.Context) {
	var req syncapi.TaskEnvelope
	if !bindJSON(c, &req) {
		return
	}

	task, apiErr := h.syncService.UpsertTask(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Task)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.TaskEnvelope{Task: *task})
}

func (h *SyncHandler) DeleteTask(c *gin.Context) {
	if apiErr := h.syncService.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SyncHandler) ListHistory(c *gin.Context) {
	limit := service.DefaultHistoryLimit
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	entries, apiErr := h.syncService.ListHistory(c.Request.Context(), middleware.UserID(c), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.HistoryEnvelope{History: entries})
}

func (h *SyncHandler) AppendHistory(c *gin.Context) {
	var req syncapi.HistoryEntryEnvelope
	if !bindJSON(c, &req) {
		return
	}

	entry, apiErr := h.syncService.AppendHistory(c.Request.Context(), middleware.UserID(c), req.Entry)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, syncapi.HistoryEntryEnvelope{Entry: *entry})
}

func (h *SyncHandler) ReplaceHistory(c *gin.Context) {
	var req syncapi.HistoryEnvelope
	if !bindJSON(c, &req) {
		return
	}

	if apiErr := h.syncService.ReplaceHistory(c.Request.Context(), middleware.UserID(c), req.History); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SyncHandler) ClearHistory(c *gin.Context) {
	if apiErr := h.syncService.ClearHistory(c.Request.Context(), middleware.UserID(c)); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SyncHandler) GetSettings(c *gin.Context) {
	settings, apiErr := h.syncService.GetSettings(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.SettingsEnvelope{Settings: *settings})
}

func (h *SyncHandler) PutSettings(c *gin.Context) {
	var req syncapi.SettingsEnvelope
	if !bindJSON(c, &req) {
		return
	}

	settings, apiErr := h.syncService.PutSettings(c.Request.Context(), middleware.UserID(c), req.Settings)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.SettingsEnvelope{Settings: *settings})
}

func (h *SyncHandler) GetSession(c *gin.Context) {
	session, apiErr := h.syncService.GetSession(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.SessionEnvelope{Session: *session})
}

func (h *SyncHandler) PutSession(c *gin.Context) {
	var req syncapi.SessionEnvelope
	if !bindJSON(c, &req) {
		return
	}

	session, apiErr := h.syncService.PutSession(c.Request.Context(), middleware.UserID(c), req.Session)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, syncapi.SessionEnvelope{Session: *session})
}
