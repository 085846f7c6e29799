package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skilltree/internal/skill"
)

// SkillHandler serves /api/skills.
type SkillHandler struct {
	svc *skill.Service
	log *zap.SugaredLogger
}

// POST /api/skills/
func (h *SkillHandler) CreateRoot(c *gin.Context) {
	var req skill.CreateSkill
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	created, err := h.svc.CreateRoot(req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/skills/
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.svc.ListSkills()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

// GET /api/skills/:id
func (h *SkillHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sk, err := h.svc.GetSkill(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sk)
}

// PATCH /api/skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req skill.UpdateSkill
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	updated, err := h.svc.UpdateSkill(id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DELETE /api/skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.svc.DeleteSkill(id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/skills/:id/children
func (h *SkillHandler) CreateChild(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req skill.CreateSkill
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	created, err := h.svc.CreateChild(id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /api/skills/:id/summary
func (h *SkillHandler) Summarize(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.svc.Summarize(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/skills/roots/summary
func (h *SkillHandler) SummarizeRoots(c *gin.Context) {
	summaries, err := h.svc.SummarizeRoots()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GET /api/skills/tree
func (h *SkillHandler) Tree(c *gin.Context) {
	tree, err := h.svc.Tree()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GET /api/skills/export
func (h *SkillHandler) Export(c *gin.Context) {
	forest, err := h.svc.Export()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, forest)
}

// POST /api/skills/import
func (h *SkillHandler) ImportAdd(c *gin.Context) {
	h.runImport(c, false)
}

// PUT /api/skills/import
func (h *SkillHandler) ImportReplace(c *gin.Context) {
	h.runImport(c, true)
}

func (h *SkillHandler) runImport(c *gin.Context, replace bool) {
	var trees []skill.ImportNode
	if err := c.ShouldBindJSON(&trees); err != nil {
		respondBadBody(c, err)
		return
	}
	created, err := h.svc.Import(trees, replace)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// pathID parses the :id path segment; a non-integer gets 422 directly.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, detail{Detail: "id must be an integer"})
		return 0, false
	}
	return id, true
}
