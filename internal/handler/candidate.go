package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shubhamtodkar06/Automate-recruitment/pkg/response"
)

type startApplicationReq struct {
	Role string `json:"role" binding:"required"`
}

// StartApplication begins a fresh application for the session: the lighter
// "new application" reset followed by role selection.
func (h *Handler) StartApplication(c *gin.Context) {
	var req startApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	s, sid := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.app.NewApplication(c.Request.Context())
	if err := s.app.SetRole(c.Request.Context(), req.Role); err != nil {
		h.respondErr(c, err)
		return
	}

	requirement, err := h.Roles.GetRequirement(c.Request.Context(), req.Role)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	h.Logger.Info("application started",
		zap.String("session", sid),
		zap.String("role", req.Role),
	)

	response.OK(c, gin.H{
		"application_id": s.app.ID(),
		"state":          s.app.State(),
		"role":           req.Role,
		"requirement":    requirement,
	})
}

type uploadResumeReq struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

// UploadResume accepts either a multipart document upload (field "resume")
// or a JSON body with raw resume text, plus the candidate email.
func (h *Handler) UploadResume(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	var email, text string

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		email = c.PostForm("email")

		fileHeader, err := c.FormFile("resume")
		if err != nil {
			response.BadRequest(c, "resume file is required")
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "could not read resume file")
			return
		}
		defer f.Close()

		text, err = h.Extractor.Extract(fileHeader.Filename, f)
		if err != nil {
			h.Logger.Error("resume extraction failed",
				zap.String("filename", fileHeader.Filename),
				zap.Error(err),
			)
			response.ValidationError(c, "could not extract text from the uploaded resume")
			return
		}
	} else {
		var req uploadResumeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
		email, text = req.Email, req.Text
	}

	if email != "" {
		if err := s.app.SetEmail(email); err != nil {
			h.respondErr(c, err)
			return
		}
	}
	if err := s.app.SetResume(text); err != nil {
		h.respondErr(c, err)
		return
	}

	response.OK(c, gin.H{
		"state":         s.app.State(),
		"resume_loaded": true,
	})
}

// Analyze runs the resume scoring step.
func (h *Handler) Analyze(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	selected, feedback, err := s.app.Analyze(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}

	response.OK(c, gin.H{
		"state":    s.app.State(),
		"selected": selected,
		"feedback": feedback,
	})
}

// StartTest begins the screening test for the application's role.
func (h *Handler) StartTest(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.app.StartTest(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}

	payload := gin.H{"state": s.app.State()}
	if result != nil {
		// zero-question role: the test auto-passed
		payload["result"] = result
	}
	response.OK(c, payload)
}

// GetQuestion returns the question awaiting an answer. The correct answer is
// never exposed.
func (h *Handler) GetQuestion(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	q, index, total, err := s.app.Question()
	if err != nil {
		h.respondErr(c, err)
		return
	}

	response.OK(c, gin.H{
		"index":    index,
		"total":    total,
		"question": q.Question,
		"options":  q.Options,
	})
}

type submitAnswerReq struct {
	Answer string `json:"answer"`
}

// SubmitAnswer records one answer; the final answer resolves the test.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.app.SubmitAnswer(c.Request.Context(), req.Answer)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	payload := gin.H{"state": s.app.State()}
	if result != nil {
		payload["result"] = result
	} else {
		index, total := 0, 0
		if q, i, t, qerr := s.app.Question(); qerr == nil {
			index, total = i, t
			payload["question"] = q.Question
			payload["options"] = q.Options
		}
		payload["index"] = index
		payload["total"] = total
	}
	response.OK(c, payload)
}

// Confirm is the candidate's explicit "proceed with application".
func (h *Handler) Confirm(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.app.Confirm(c.Request.Context()); err != nil {
		h.respondErr(c, err)
		return
	}
	response.OK(c, gin.H{"state": s.app.State()})
}

// ListSlots returns the offerable interview timestamps.
func (h *Handler) ListSlots(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.app.OfferedSlots(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	response.OK(c, gin.H{"available_times": slots})
}

type scheduleReq struct {
	Slot string `json:"slot" binding:"required"`
}

// Schedule books the interview for the requested slot. Picking a different
// slot than a previously chosen one counts as a re-pick.
func (h *Handler) Schedule(c *gin.Context) {
	var req scheduleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	s, sid := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := c.Request.Context()
	if err := s.app.ChooseSlot(ctx, req.Slot); err != nil {
		h.respondErr(c, err)
		return
	}

	joinURL, err := s.app.Schedule(ctx)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	h.Logger.Info("interview scheduled",
		zap.String("session", sid),
		zap.String("role", s.app.RoleID()),
		zap.String("slot", req.Slot),
	)

	response.OK(c, gin.H{
		"state":    s.app.State(),
		"slot":     req.Slot,
		"join_url": joinURL,
	})
}

// Reset clears the whole application and returns to intake.
func (h *Handler) Reset(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.app.Reset(c.Request.Context())
	response.OK(c, gin.H{"state": s.app.State()})
}

// Status reports where the application stands.
func (h *Handler) Status(c *gin.Context) {
	s, _ := h.getSession(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	verdictSet, selected := s.app.Verdict()
	response.OK(c, gin.H{
		"application_id": s.app.ID(),
		"state":          s.app.State(),
		"role":           s.app.RoleID(),
		"email":          s.app.Email(),
		"resume_loaded":  s.app.ResumeLoaded(),
		"verdict_set":    verdictSet,
		"selected":       selected,
		"feedback":       s.app.Feedback(),
		"slot":           s.app.Slot(),
		"join_url":       s.app.JoinURL(),
		"transitions":    s.app.Transitions(),
	})
}

// ListRoles returns the open roles and their requirement text.
func (h *Handler) ListRoles(c *gin.Context) {
	ctx := c.Request.Context()
	ids, err := h.Roles.ListRoles(ctx)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	roles := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		requirement, err := h.Roles.GetRequirement(ctx, id)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		roles = append(roles, gin.H{"role": id, "requirement": requirement})
	}
	response.OK(c, roles)
}
