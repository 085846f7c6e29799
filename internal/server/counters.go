package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skilltree/internal/skill"
)

// CounterHandler serves /api/counters.
type CounterHandler struct {
	svc *skill.Service
	log *zap.SugaredLogger
}

// POST /api/counters/?skill_id=N
func (h *CounterHandler) Create(c *gin.Context) {
	skillID, err := strconv.ParseInt(c.Query("skill_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, detail{Detail: "skill_id query parameter must be an integer"})
		return
	}
	var req skill.CreateCounter
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	created, err := h.svc.CreateCounter(skillID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/counters/?skill_id=N
func (h *CounterHandler) List(c *gin.Context) {
	var filter *int64
	if raw := c.Query("skill_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, detail{Detail: "skill_id query parameter must be an integer"})
			return
		}
		filter = &id
	}
	counters, err := h.svc.ListCounters(filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, counters)
}

// GET /api/counters/:id
func (h *CounterHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	counter, err := h.svc.GetCounter(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, counter)
}

// PATCH /api/counters/:id
func (h *CounterHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req skill.UpdateCounter
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	updated, err := h.svc.UpdateCounter(id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/counters/:id
func (h *CounterHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCounter(id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/counters/:id/increment?amount=x
func (h *CounterHandler) Increment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	amount := 1.0
	if raw := c.Query("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, detail{Detail: "amount query parameter must be a number"})
			return
		}
		amount = parsed
	}
	counter, err := h.svc.IncrementCounter(id, amount)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, counter)
}
