package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johnpc/fit-cli/internal/service"
)

type createFoodRequest struct {
	Name     string `json:"name"`
	Calories *int   `json:"calories" binding:"required,min=0"`
	Protein  *int   `json:"protein" binding:"omitempty,min=0"`
	Date     string `json:"date"`
}

func (s *Server) now() time.Time {
	if s.deps.Now != nil {
		return s.deps.Now()
	}
	return time.Now()
}

// resolveDate accepts "today", an empty value, or YYYY-MM-DD.
func (s *Server) resolveDate(raw string) (string, time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "today" {
		now := s.now()
		return s.deps.Days.Format(now), now, nil
	}
	return s.deps.Days.ParseISO(raw)
}

func (s *Server) fail(c *gin.Context, handler string, err error) {
	status := http.StatusInternalServerError
	kind := "internal"
	if errors.Is(err, service.ErrNotFound) {
		status, kind = http.StatusNotFound, "not_found"
	}
	s.metrics.ErrorCount.WithLabelValues(handler, kind).Inc()
	if status == http.StatusInternalServerError {
		s.log.Error("handler_failed", zap.String("handler", handler), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) badRequest(c *gin.Context, handler string, err error) {
	s.metrics.ErrorCount.WithLabelValues(handler, "bad_request").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.deps.DB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": s.now().UTC()})
}

func (s *Server) getDay(c *gin.Context) {
	_, date, err := s.resolveDate(c.Param("day"))
	if err != nil {
		s.badRequest(c, "get_day", err)
		return
	}
	day, err := service.DaySummary(c.Request.Context(), s.deps, date)
	if err != nil {
		s.fail(c, "get_day", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) createFood(c *gin.Context) {
	var req createFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "create_food", err)
		return
	}
	bucket, _, err := s.resolveDate(req.Date)
	if err != nil {
		s.badRequest(c, "create_food", err)
		return
	}
	protein := req.Protein
	if protein != nil && *protein == 0 {
		protein = nil
	}
	id, err := service.CreateFood(c.Request.Context(), s.deps.DB, service.CreateFoodInput{
		Name:     req.Name,
		Calories: *req.Calories,
		Protein:  protein,
		Day:      bucket,
	})
	if err != nil {
		s.badRequest(c, "create_food", err)
		return
	}
	service.PublishToday(c.Request.Context(), s.deps, bucket)
	food, err := service.FoodByID(c.Request.Context(), s.deps.DB, id)
	if err != nil {
		s.fail(c, "create_food", err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (s *Server) deleteFood(c *gin.Context) {
	ctx := c.Request.Context()
	food, err := service.FoodByID(ctx, s.deps.DB, c.Param("id"))
	if err != nil {
		s.fail(c, "delete_food", err)
		return
	}
	if err := service.DeleteFood(ctx, s.deps.DB, food.ID); err != nil {
		s.fail(c, "delete_food", err)
		return
	}
	service.PublishToday(ctx, s.deps, food.Day)
	c.Status(http.StatusNoContent)
}

func (s *Server) listQuickAdds(c *gin.Context) {
	items, err := service.EffectiveQuickAdds(c.Request.Context(), s.deps.DB)
	if err != nil {
		s.fail(c, "list_quick_adds", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) lookup() service.StoreLookup {
	return service.StoreLookup{DB: s.deps.DB, Health: s.deps.Health, Days: s.deps.Days, Log: s.log, Fallback: true}
}

func (s *Server) weekLookup() service.StoreLookup {
	l := s.lookup()
	l.FallbackAlways = true
	return l
}

func (s *Server) week(c *gin.Context) {
	_, end, err := s.resolveDate(c.Query("end"))
	if err != nil {
		s.badRequest(c, "week", err)
		return
	}
	w, err := service.Week(c.Request.Context(), s.weekLookup(), s.deps.Days, end)
	if err != nil {
		s.fail(c, "week", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": w.Days, "net": w.Net, "tracked": w.Tracked, "pounds": w.Pounds()})
}

func (s *Server) streak(c *gin.Context) {
	_, ref, err := s.resolveDate(c.Query("from"))
	if err != nil {
		s.badRequest(c, "streak", err)
		return
	}
	res, err := service.Streak(c.Request.Context(), s.lookup(), s.deps.Days, ref, s.opts.StreakBatch)
	if err != nil {
		s.fail(c, "streak", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": res.Days, "net": res.Net, "pounds": res.Pounds()})
}

func (s *Server) widget(c *gin.Context) {
	if s.deps.Mirror == nil {
		c.JSON(http.StatusOK, gin.H{"widget": nil})
		return
	}
	w, err := s.deps.Mirror.Widget(c.Request.Context())
	if err != nil {
		s.fail(c, "widget", err)
		return
	}
	if w == nil {
		c.JSON(http.StatusOK, gin.H{"widget": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"widget": w, "remaining": w.Remaining()})
}
