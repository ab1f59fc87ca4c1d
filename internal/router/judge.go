package router

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/mkovacevic/qrel-judge/internal/apperr"
	"github.com/mkovacevic/qrel-judge/internal/docsrc"
	"github.com/mkovacevic/qrel-judge/internal/domain"
	"github.com/mkovacevic/qrel-judge/internal/nav"
	"github.com/mkovacevic/qrel-judge/internal/session"
)

const (
	exportFilename = "qrels.txt"

	// HeaderSessionID carries the bootstrap's session id on every API call
	// after the state fetch; a stale one means the session was exported and
	// reset underneath the caller.
	HeaderSessionID = "X-Session-Id"
)

type JudgeRouter struct {
	e       *echo.Echo
	session *session.Session
	sources *docsrc.Cache
}

func NewJudgeRouter(e *echo.Echo, s *session.Session, sources *docsrc.Cache) *JudgeRouter {
	return &JudgeRouter{
		e:       e,
		session: s,
		sources: sources,
	}
}

func (r *JudgeRouter) Bind() {
	r.e.GET("/api/state", r.stateHandler)
	r.e.PUT("/api/judgments", r.judgmentHandler)
	r.e.PUT("/api/comments", r.commentHandler)
	r.e.POST("/api/nav/prev", r.prevHandler)
	r.e.POST("/api/nav/next", r.nextHandler)
	r.e.POST("/api/nav/jump", r.jumpHandler)
	r.e.GET("/api/incomplete", r.incompleteHandler)
	r.e.POST("/api/submit", r.submitHandler)
	r.e.GET("/docs/:file", r.sourceHandler)
}

func (r *JudgeRouter) stateHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.session.State())
}

func (r *JudgeRouter) ensureCurrent(c echo.Context) error {
	return r.session.EnsureCurrent(c.Request().Header.Get(HeaderSessionID))
}

type judgmentRequest struct {
	QuestionID string `json:"question_id"`
	DocID      string `json:"doc_id"`
	Label      string `json:"label"`
}

func (r *JudgeRouter) judgmentHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	var req judgmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("decode judgment", err)
	}
	if req.QuestionID == "" || req.DocID == "" {
		return apperr.NewValidation("question_id and doc_id are required")
	}

	t, err := r.session.SetLabel(c.Request().Context(), req.QuestionID, req.DocID, domain.ParseLabel(req.Label))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

type commentRequest struct {
	QuestionID string `json:"question_id"`
	DocID      string `json:"doc_id"`
	Comment    string `json:"comment"`
}

func (r *JudgeRouter) commentHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("decode comment", err)
	}
	if req.QuestionID == "" || req.DocID == "" {
		return apperr.NewValidation("question_id and doc_id are required")
	}

	if err := r.session.SetComment(c.Request().Context(), req.QuestionID, req.DocID, req.Comment); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *JudgeRouter) prevHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	t, err := r.session.Prev(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (r *JudgeRouter) nextHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	t, err := r.session.Next(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

type jumpRequest struct {
	Index int `json:"index"`
}

func (r *JudgeRouter) jumpHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	var req jumpRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("decode jump", err)
	}
	t, err := r.session.JumpTo(c.Request().Context(), req.Index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

type incompleteResponse struct {
	Complete   bool            `json:"complete"`
	Transition *nav.Transition `json:"transition,omitempty"`
}

func (r *JudgeRouter) incompleteHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	t, ok, err := r.session.JumpToIncomplete(c.Request().Context())
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusOK, incompleteResponse{Complete: true})
	}
	return c.JSON(http.StatusOK, incompleteResponse{Complete: false, Transition: &t})
}

func (r *JudgeRouter) submitHandler(c echo.Context) error {
	if err := r.ensureCurrent(c); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.session.Export(c.Request().Context(), &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFilename+`"`)
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
}

func (r *JudgeRouter) sourceHandler(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("file"))
	if err != nil {
		return apperr.NewValidationWrap("source name", err)
	}

	data, err := r.sources.Get(name)
	if err != nil {
		// A broken source stays scoped to that source; the view shows an
		// inline error for its documents and everything else keeps working.
		return apperr.NewNotFound("source not available: " + name)
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}
