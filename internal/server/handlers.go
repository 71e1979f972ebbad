package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// RepositoriesResponse is the response body for the repository listings.
type RepositoriesResponse struct {
	TotalCount int                  `json:"total_count"`
	Items      []*domain.Repository `json:"items"`
}

// TopicsResponse is the response body for GET /api/v1/topics.
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

// BookmarksResponse is the response body for GET /api/v1/bookmarks.
type BookmarksResponse struct {
	IDs []int64 `json:"ids"`
}

// ToggleResponse is the response body for POST /api/v1/bookmarks/:id/toggle.
type ToggleResponse struct {
	ID         int64 `json:"id"`
	Bookmarked bool  `json:"bookmarked"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleRepositories(c echo.Context) error {
	params, err := searchParams(c)
	if err != nil {
		return err
	}
	result, err := s.explorer.Search(c.Request().Context(), params)
	if err != nil {
		return s.upstreamError(err)
	}
	return c.JSON(http.StatusOK, RepositoriesResponse{TotalCount: result.TotalCount, Items: result.Items})
}

func (s *Server) handleTrending(c echo.Context) error {
	period := domain.Period(c.QueryParam("period"))
	switch period {
	case "":
		period = domain.PeriodWeek
	case domain.PeriodDay, domain.PeriodWeek, domain.PeriodMonth:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "period must be day, week or month")
	}
	repos, err := s.explorer.Trending(c.Request().Context(), c.QueryParam("language"), period)
	if err != nil {
		return s.upstreamError(err)
	}
	return c.JSON(http.StatusOK, RepositoriesResponse{TotalCount: len(repos), Items: repos})
}

func (s *Server) handleTopics(c echo.Context) error {
	topics, err := s.explorer.PopularTopics(c.Request().Context())
	if err != nil {
		return s.upstreamError(err)
	}
	return c.JSON(http.StatusOK, TopicsResponse{Topics: topics})
}

func (s *Server) handleDashboard(c echo.Context) error {
	params, err := searchParams(c)
	if err != nil {
		return err
	}
	d, err := s.explorer.Dashboard(c.Request().Context(), params)
	if err != nil {
		return s.upstreamError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) handleRepository(c echo.Context) error {
	repo, err := s.explorer.Repository(c.Request().Context(), c.Param("owner"), c.Param("name"))
	if err != nil {
		return s.upstreamError(err)
	}
	return c.JSON(http.StatusOK, repo)
}

func (s *Server) handleListBookmarks(c echo.Context) error {
	ids, err := s.bookmarks.List(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to list bookmarks", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load bookmarks")
	}
	return c.JSON(http.StatusOK, BookmarksResponse{IDs: ids})
}

func (s *Server) handleToggleBookmark(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	on, err := s.bookmarks.Toggle(c.Request().Context(), id)
	if err != nil {
		s.logger.Error("failed to toggle bookmark", zap.Int64("id", id), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save bookmarks")
	}
	return c.JSON(http.StatusOK, ToggleResponse{ID: id, Bookmarked: on})
}
