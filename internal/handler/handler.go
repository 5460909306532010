package handler

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/resume"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/workflow"
	"github.com/shubhamtodkar06/Automate-recruitment/pkg/response"
)

// SessionHeader carries the candidate's session identifier. A new session is
// minted on first use and echoed back on every response.
const SessionHeader = "X-Session-ID"

// Handler owns the HTTP surface: one live candidate application per session
// plus the recruiter admin endpoints.
type Handler struct {
	Logger    *zap.Logger
	Roles     store.RoleStore
	Analytics store.AnalyticsStore
	Slots     store.SlotStore
	Extractor resume.Extractor

	// template for new applications; collaborators are shared
	WorkflowDeps workflow.Deps

	JwtSecret         string
	JwtTTL            time.Duration
	AdminPasswordHash string

	mu       sync.Mutex
	sessions map[string]*session
}

// session serializes access to its application: workflow methods are not
// safe for concurrent use.
type session struct {
	mu  sync.Mutex
	app *workflow.Application
}

// getSession resolves the request's session, minting one when the header is
// absent or unknown, and echoes the id back in the response header.
func (h *Handler) getSession(c *gin.Context) (*session, string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions == nil {
		h.sessions = make(map[string]*session)
	}

	id := c.GetHeader(SessionHeader)
	s, ok := h.sessions[id]
	if !ok {
		id = uuid.NewString()
		s = &session{app: workflow.New(h.WorkflowDeps)}
		h.sessions[id] = s
	}
	c.Header(SessionHeader, id)
	return s, id
}

// respondErr maps workflow and store errors onto the response envelope.
func (h *Handler) respondErr(c *gin.Context, err error) {
	var ve *workflow.ValidationError
	var ise *workflow.InvalidStateError
	var ce *workflow.CollaboratorError

	switch {
	case errors.As(err, &ve):
		response.ValidationError(c, ve.Msg)
	case errors.As(err, &ise):
		response.Conflict(c, ise.Error())
	case errors.Is(err, workflow.ErrRescheduleLimit):
		response.Conflict(c, err.Error())
	case errors.As(err, &ce):
		response.RetryableError(c, ce.Error())
	case errors.Is(err, store.ErrRoleNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, store.ErrQuestionIndex):
		response.NotFound(c, err.Error())
	default:
		h.Logger.Error("unhandled error", zap.Error(err))
		response.InternalError(c, "")
	}
}
