package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/handler"
	"github.com/noah-isme/lentera-go-api/internal/service"
)

type stubProgressService struct {
	response dto.CourseProgressResponse
	summary  dto.CourseSummaryResponse
	err      error
}

func (s stubProgressService) GetCourseProgress(context.Context, uint, []uint) (dto.CourseProgressResponse, error) {
	return s.response, s.err
}

func (s stubProgressService) GetCourseSummary(context.Context, uint) (dto.CourseSummaryResponse, error) {
	return s.summary, s.err
}

func newProgressApp(stub stubProgressService) *fiber.App {
	app := fiber.New()
	h := handler.NewCourseProgressHandler(stub, zerolog.Nop())
	h.Register(app.Group("/api/v2/instructor"))
	return app
}

func TestGetCourseProgressOK(t *testing.T) {
	stub := stubProgressService{
		response: dto.CourseProgressResponse{
			Course:        dto.CourseRef{ID: 1, Title: "Go 101"},
			TotalStudents: 2,
			CourseStats:   dto.CourseStatsResponse{TotalLessons: 4, AverageProgress: 38},
		},
	}
	app := newProgressApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/instructor/courses/1/progress", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                       `json:"success"`
		Data    dto.CourseProgressResponse `json:"data"`
	}
	decodeBody(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, "Go 101", payload.Data.Course.Title)
	require.Equal(t, 2, payload.Data.TotalStudents)
}

func TestGetCourseProgressNotFound(t *testing.T) {
	app := newProgressApp(stubProgressService{err: service.ErrCourseNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/instructor/courses/42/progress", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetCourseProgressInvalidID(t *testing.T) {
	app := newProgressApp(stubProgressService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/instructor/courses/abc/progress", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCourseProgressInvalidStudentsFilter(t *testing.T) {
	app := newProgressApp(stubProgressService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/instructor/courses/1/progress?students=1,x", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCourseProgressUpstreamFailureIsRetryable(t *testing.T) {
	app := newProgressApp(stubProgressService{err: io.ErrUnexpectedEOF})

	req := httptest.NewRequest(http.MethodGet, "/api/v2/instructor/courses/1/progress", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
	}
	decodeBody(t, resp, &payload)
	require.False(t, payload.Success)
	require.True(t, payload.Retryable)
	require.NotEmpty(t, payload.Message)
}

func TestGetCourseSummaryOK(t *testing.T) {
	stub := stubProgressService{
		summary: dto.CourseSummaryResponse{
			Course:           dto.CourseRef{ID: 1, Title: "Go 101"},
			AverageQuizScore: "N/A",
		},
	}
	app := newProgressApp(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/instructor/courses/1/summary", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.CourseSummaryResponse `json:"data"`
	}
	decodeBody(t, resp, &payload)
	require.Equal(t, "N/A", payload.Data.AverageQuizScore)
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}
