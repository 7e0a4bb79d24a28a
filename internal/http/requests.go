package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/jobdesk/backend/internal/export"
	"github.com/example/jobdesk/backend/internal/models"
	"github.com/example/jobdesk/backend/internal/query"
	"github.com/example/jobdesk/backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// requestView is the detail payload: the record plus everything a page
// derives from its status.
type requestView struct {
	*models.Request
	StatusLabel   string           `json:"statusLabel"`
	BadgeLabel    string           `json:"badgeLabel"`
	CategoryLabel string           `json:"categoryLabel"`
	Progress      query.Progress   `json:"progress"`
	Steps         []query.StepView `json:"steps"`
	Message       query.Message    `json:"message"`
	Overdue       bool             `json:"overdue"`
}

func (s *Server) view(req *models.Request) requestView {
	return requestView{
		Request:       req,
		StatusLabel:   req.Status.Label(),
		BadgeLabel:    req.Status.BadgeLabel(),
		CategoryLabel: req.Category.IconLabel(),
		Progress:      query.DeriveProgressStep(req.Status),
		Steps:         query.Steps(req.Status),
		Message:       query.StatusMessage(req.Status),
		Overdue:       query.IsOpen(req.Status) && query.IsOverdue(req.DueDate, s.requests.Now()),
	}
}

func filterFrom(c *gin.Context) query.Filter {
	return query.Filter{Status: c.Query("status"), Search: c.Query("q")}
}

func (s *Server) createRequest(c *gin.Context) {
	var payload service.CreateInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	req, err := s.requests.Create(c.Request.Context(), payload)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.view(req))
}

func (s *Server) listRequests(c *gin.Context) {
	list, err := s.requests.Search(c.Request.Context(), filterFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) board(c *gin.Context) {
	cols, err := s.requests.Board(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (s *Server) stats(c *gin.Context) {
	st, err := s.requests.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	overdue, err := s.requests.Overdue(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": st.Total, "byStatus": st.ByStatus, "overdue": len(overdue)})
}

func (s *Server) exportRequests(c *gin.Context) {
	list, err := s.requests.Search(c.Request.Context(), filterFrom(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	buf, err := export.RequestsXLSX(list)
	if err != nil {
		s.fail(c, err)
		return
	}
	name := fmt.Sprintf("requests-%s.xlsx", s.requests.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) getRequest(c *gin.Context) {
	req, err := s.requests.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(req))
}

func (s *Server) decision(c *gin.Context) {
	var payload struct {
		Outcome string `json:"outcome" binding:"required"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	outcome := service.Outcome(strings.ToLower(strings.TrimSpace(payload.Outcome)))
	req, err := s.requests.Decide(c.Request.Context(), c.Param("ref"), outcome, payload.Reason, c.GetHeader(ActorHeader))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(req))
}

func (s *Server) assign(c *gin.Context) {
	var payload struct {
		Assignee string `json:"assignee" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if !s.catalog.IsTeamMember(payload.Assignee) {
		s.fail(c, &service.ValidationError{Fields: map[string]string{"assignee": "must be a member of the production team"}})
		return
	}
	req, err := s.requests.Assign(c.Request.Context(), c.Param("ref"), payload.Assignee, c.GetHeader(ActorHeader))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(req))
}

func (s *Server) changeStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	status, ok := models.ParseStatus(strings.TrimSpace(payload.Status))
	if !ok {
		badRequest(c, fmt.Errorf("unknown status %q", payload.Status))
		return
	}
	req, err := s.requests.ChangeStatus(c.Request.Context(), c.Param("ref"), status, c.GetHeader(ActorHeader))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(req))
}

func (s *Server) setNotes(c *gin.Context) {
	var payload struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	req, err := s.requests.SetNotes(c.Request.Context(), c.Param("ref"), payload.Notes)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.view(req))
}

func (s *Server) getCatalog(c *gin.Context) {
	type category struct {
		Key      models.Category `json:"key"`
		Label    string          `json:"label"`
		Subtypes []string        `json:"subtypes"`
	}
	cats := make([]category, 0, len(models.Categories))
	for _, cat := range models.Categories {
		cats = append(cats, category{Key: cat, Label: cat.IconLabel(), Subtypes: s.catalog.Suggest(cat, "")})
	}
	c.JSON(http.StatusOK, gin.H{"team": s.catalog.Team, "categories": cats})
}

func (s *Server) suggestSubtypes(c *gin.Context) {
	cat := models.Category(c.Query("category"))
	if !cat.Valid() {
		s.fail(c, &service.ValidationError{Fields: map[string]string{"category": "must be one of printed, digital, website, event, video, other"}})
		return
	}
	c.JSON(http.StatusOK, s.catalog.Suggest(cat, c.Query("q")))
}

func (s *Server) seedDemo(c *gin.Context) {
	n, err := s.requests.SeedDemo(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"seeded": n})
}
