package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-intake-backend/internal/domain"
	"github.com/tbourn/go-intake-backend/internal/repo"
	"github.com/tbourn/go-intake-backend/internal/services"
	"github.com/tbourn/go-intake-backend/internal/utils"
)

// HeaderTotalCount carries the number of stored submissions on list responses.
const HeaderTotalCount = "X-Total-Count"

// SubmissionDetail is the full view of one submission: the summary fields
// plus the six intake answers.
type SubmissionDetail struct {
	ID             uint      `json:"id" example:"1"`
	Username       string    `json:"username" example:"patient"`
	Timestamp      time.Time `json:"timestamp"`
	Recommendation string    `json:"recommendation" example:"High risk – Recommend immediate evaluation."`
	RiskScore      int       `json:"riskScore" example:"3"`
	Age            string    `json:"age" example:"70"`
	Weight         string    `json:"weight" example:"75"`
	Height         string    `json:"height" example:"170"`
	Symptoms       string    `json:"symptoms" example:"Shortness of breath"`
	History        string    `json:"history" example:"Hypertension"`
	Lifestyle      string    `json:"lifestyle" example:"2"`
}

func detailFrom(s *domain.Submission) SubmissionDetail {
	d := s.Data()
	return SubmissionDetail{
		ID:             s.ID,
		Username:       s.Username,
		Timestamp:      s.CreatedAt,
		Recommendation: s.Recommendation,
		RiskScore:      s.RiskScore,
		Age:            d.Age,
		Weight:         d.Weight,
		Height:         d.Height,
		Symptoms:       d.Symptoms,
		History:        d.History,
		Lifestyle:      d.Lifestyle,
	}
}

// pageParams returns the requested page and page size and whether the caller
// asked for paging at all. Sizes are bounded to [1, 100].
func pageParams(c *gin.Context) (page, pageSize int, paged bool) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	rawPage, hasPage := c.GetQuery("page")
	rawSize, hasSize := c.GetQuery("page_size")
	if !hasPage && !hasSize {
		return 0, 0, false
	}
	page = utils.AtoiDefault(rawPage, 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.Clamp(utils.AtoiDefault(rawSize, defaultPageSize), 1, maxPageSize)
	return page, pageSize, true
}

// GetSubmissions godoc
// @ID          getSubmissions
// @Summary     Fetch one submission or list all
// @Description With id, returns that submission including its answers. Without id, returns summaries newest first (no answers). page/page_size select a page. Lists carry X-Total-Count and a weak ETag and may return 304.
// @Tags        Submissions
// @Produce     json
//
// @Param       id             query   string  false "Submission id"               example(1)
// @Param       page           query   int     false "Page number"                 minimum(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"submissions:3:3:0:0\")
//
// @Success     200  {object}  handlers.SubmissionDetail      "With id"
// @Success     200  {array}   domain.SubmissionSummary       "Without id"
// @Header      200  {string}  ETag           "Weak ETag for the list"
// @Header      200  {integer} X-Total-Count  "Stored submissions"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid id"
// @Failure     404  {object}  handlers.ErrorResponse  "Submission not found"
// @Failure     405  {object}  handlers.ErrorResponse  "Method not allowed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /submissions [get]
func (h *Handlers) GetSubmissions(c *gin.Context) {
	ids := c.QueryArray("id")
	switch {
	case len(ids) > 1:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidID)
	case len(ids) == 1 && ids[0] != "":
		h.getSubmission(c, ids[0])
	default:
		h.listSubmissions(c)
	}
}

func (h *Handlers) getSubmission(c *gin.Context, rawID string) {
	sub, err := h.subSvc.Get(c.Request.Context(), rawID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidID):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, MsgInvalidID)
		case errors.Is(err, services.ErrSubmissionNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, MsgNotFound)
		default:
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, ErrCodeInternal, MsgInternal)
		}
		return
	}
	ok(c, http.StatusOK, detailFrom(sub))
}

func (h *Handlers) listSubmissions(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize, paged := pageParams(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.subSvc.(*services.SubmissionService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxID, err := repo.SubmissionsStats(ctx, db)
		if err == nil {
			etag := fmt.Sprintf(`W/"submissions:%d:%d:%d:%d"`, count, maxID, page, pageSize)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				notModified(c)
				return
			}
		}
	}

	var (
		items []domain.SubmissionSummary
		total int64
		err   error
	)
	if paged {
		items, total, err = h.subSvc.ListPage(ctx, page, pageSize)
	} else {
		items, err = h.subSvc.List(ctx)
		total = int64(len(items))
	}
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, MsgInternal)
		return
	}

	if items == nil {
		items = []domain.SubmissionSummary{}
	}
	c.Header(HeaderTotalCount, strconv.FormatInt(total, 10))
	ok(c, http.StatusOK, items)
}
