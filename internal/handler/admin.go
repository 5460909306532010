package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/auth"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
	"github.com/shubhamtodkar06/Automate-recruitment/pkg"
	"github.com/shubhamtodkar06/Automate-recruitment/pkg/response"
)

type adminLoginReq struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin exchanges the recruiter password for a JWT.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := pkg.ComparePassword(h.AdminPasswordHash, req.Password); err != nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JwtSecret, h.JwtTTL)
	if err != nil {
		h.Logger.Error("admin_login: token generation failed", zap.Error(err))
		response.InternalError(c, "")
		return
	}

	response.OK(c, gin.H{"token": token, "expires_in": h.JwtTTL.String()})
}

type upsertRoleReq struct {
	Title       string `json:"title"`
	Role        string `json:"role"`
	Requirement string `json:"requirement" binding:"required"`
}

// UpsertRole creates or updates a role. A missing role id is derived from
// the title.
func (h *Handler) UpsertRole(c *gin.Context) {
	var req upsertRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	roleID := req.Role
	if roleID == "" {
		if req.Title == "" {
			response.BadRequest(c, "role or title is required")
			return
		}
		roleID = pkg.GenerateRoleID(req.Title)
	}

	if err := h.Roles.UpsertRole(c.Request.Context(), roleID, req.Requirement); err != nil {
		h.Logger.Error("upsert_role: failed", zap.String("role", roleID), zap.Error(err))
		response.InternalError(c, "failed to save role")
		return
	}

	h.Logger.Info("upsert_role: role saved", zap.String("role", roleID))
	response.Created(c, gin.H{"role": roleID})
}

// DeleteRole removes a role. Its question bank is left orphaned.
func (h *Handler) DeleteRole(c *gin.Context) {
	roleID := c.Param("role_id")

	if err := h.Roles.DeleteRole(c.Request.Context(), roleID); err != nil {
		h.respondErr(c, err)
		return
	}

	h.Logger.Info("delete_role: role removed", zap.String("role", roleID))
	response.Message(c, "role deleted")
}

// ListQuestions returns a role's full question bank, answers included
// (recruiter view).
func (h *Handler) ListQuestions(c *gin.Context) {
	roleID := c.Param("role_id")

	questions, err := h.Roles.ListQuestions(c.Request.Context(), roleID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if questions == nil {
		questions = []store.Question{}
	}
	response.OK(c, questions)
}

type questionReq struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required"`
	Answer   string   `json:"answer" binding:"required"`
}

// AddQuestion appends a question to a role's bank.
func (h *Handler) AddQuestion(c *gin.Context) {
	roleID := c.Param("role_id")

	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	q := store.Question{Question: req.Question, Options: req.Options, Answer: req.Answer}
	if err := h.Roles.AddQuestion(c.Request.Context(), roleID, q); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	h.Logger.Info("add_question: question added", zap.String("role", roleID))
	response.Created(c, q)
}

// UpdateQuestion replaces the question at the given index.
func (h *Handler) UpdateQuestion(c *gin.Context) {
	roleID := c.Param("role_id")

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid question index")
		return
	}

	var req questionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	q := store.Question{Question: req.Question, Options: req.Options, Answer: req.Answer}
	if err := h.Roles.UpdateQuestion(c.Request.Context(), roleID, index, q); err != nil {
		if err == store.ErrQuestionIndex {
			h.respondErr(c, err)
			return
		}
		response.ValidationError(c, err.Error())
		return
	}

	response.Message(c, "question updated")
}

// DeleteQuestion removes the question at the given index.
func (h *Handler) DeleteQuestion(c *gin.Context) {
	roleID := c.Param("role_id")

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid question index")
		return
	}

	if err := h.Roles.DeleteQuestion(c.Request.Context(), roleID, index); err != nil {
		h.respondErr(c, err)
		return
	}

	response.Message(c, "question deleted")
}

// ListAdminSlots returns the offerable slot pool.
func (h *Handler) ListAdminSlots(c *gin.Context) {
	slots, err := h.Slots.ListSlots(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	response.OK(c, gin.H{"available_times": slots})
}

type slotReq struct {
	Time string `json:"time" binding:"required"`
}

// AddSlot adds a timestamp to the offerable pool.
func (h *Handler) AddSlot(c *gin.Context) {
	var req slotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.Slots.AddSlot(c.Request.Context(), req.Time); err != nil {
		h.respondErr(c, err)
		return
	}
	response.Created(c, gin.H{"time": req.Time})
}

// RemoveSlot removes a timestamp from the offerable pool.
func (h *Handler) RemoveSlot(c *gin.Context) {
	var req slotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.Slots.RemoveSlot(c.Request.Context(), req.Time); err != nil {
		h.respondErr(c, err)
		return
	}
	response.Message(c, "slot removed")
}

// GetAnalytics returns per-role counters and the interview log.
func (h *Handler) GetAnalytics(c *gin.Context) {
	snapshot, err := h.Analytics.Snapshot(c.Request.Context())
	if err != nil {
		h.Logger.Error("analytics: snapshot failed", zap.Error(err))
		response.InternalError(c, "failed to load analytics")
		return
	}
	response.OK(c, snapshot)
}
