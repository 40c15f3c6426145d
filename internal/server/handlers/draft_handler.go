package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/service/drafts"
)

// DraftHandler exposes uncommitted manual entries.
type DraftHandler struct {
	store  drafts.Store
	logger *zap.Logger
}

func NewDraftHandler(store drafts.Store, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{store: store, logger: orNop(logger)}
}

func (h *DraftHandler) Get(c *gin.Context) {
	draft, ok, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *DraftHandler) Put(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || !json.Valid(raw) {
		badRequest(c, "draft body must be a JSON document")
		return
	}

	draft, err := h.store.Set(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
