package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/expert-calendar-api/internal/dto"
	"github.com/noah-isme/expert-calendar-api/internal/middleware"
	"github.com/noah-isme/expert-calendar-api/internal/models"
	appErrors "github.com/noah-isme/expert-calendar-api/pkg/errors"
)

type appointmentServiceMock struct {
	listItems  []models.Occurrence
	listErr    error
	listFrom   time.Time
	listTo     time.Time
	created    *dto.CreateAppointmentResponse
	createErr  error
	createReq  dto.CreateAppointmentRequest
	createUser string
}

func (m *appointmentServiceMock) List(ctx context.Context, ownerID string, from, to time.Time) ([]models.Occurrence, error) {
	m.listFrom = from
	m.listTo = to
	return m.listItems, m.listErr
}

func (m *appointmentServiceMock) Create(ctx context.Context, ownerID string, req dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	m.createUser = ownerID
	m.createReq = req
	return m.created, m.createErr
}

type mutationServiceMock struct {
	updated     *models.Occurrence
	updateErr   error
	updateID    string
	updateScope models.MutationScope
	removeErr   error
	removeID    string
	removeScope models.MutationScope
}

func (m *mutationServiceMock) Update(ctx context.Context, ownerID, occurrenceID string, req dto.UpdateAppointmentRequest, scope models.MutationScope) (*models.Occurrence, error) {
	m.updateID = occurrenceID
	m.updateScope = scope
	return m.updated, m.updateErr
}

func (m *mutationServiceMock) Remove(ctx context.Context, ownerID, occurrenceID string, scope models.MutationScope) error {
	m.removeID = occurrenceID
	m.removeScope = scope
	return m.removeErr
}

func buildAppointmentRouter(appointments appointmentService, mutations mutationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: uid})
		}
		c.Next()
	})

	h := NewAppointmentHandler(appointments, mutations)
	router.GET("/appointments", h.List)
	router.POST("/appointments", h.Create)
	router.PATCH("/appointments/:id", h.Update)
	router.DELETE("/appointments/:id", h.Delete)
	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAppointmentHandlerList(t *testing.T) {
	svc := &appointmentServiceMock{listItems: []models.Occurrence{
		{ID: "occ-1", OwnerID: "expert-1", Title: "Consultation", StartAt: time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)},
	}}
	router := buildAppointmentRouter(svc, &mutationServiceMock{})

	req, _ := http.NewRequest(http.MethodGet, "/appointments?start=2025-01-01&end=2025-02-01", nil)
	req.Header.Set("X-Test-User", "expert-1")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"occ-1"`)
	require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), svc.listFrom)
	require.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), svc.listTo)
}

func TestAppointmentHandlerListUnauthorized(t *testing.T) {
	router := buildAppointmentRouter(&appointmentServiceMock{}, &mutationServiceMock{})

	req, _ := http.NewRequest(http.MethodGet, "/appointments?start=2025-01-01&end=2025-02-01", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAppointmentHandlerListRangeValidation(t *testing.T) {
	router := buildAppointmentRouter(&appointmentServiceMock{}, &mutationServiceMock{})

	cases := []struct {
		name  string
		query string
	}{
		{"missing start", "end=2025-02-01"},
		{"missing end", "start=2025-01-01"},
		{"malformed start", "start=january&end=2025-02-01"},
		{"end not after start", "start=2025-02-01&end=2025-02-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/appointments?"+tc.query, nil)
			req.Header.Set("X-Test-User", "expert-1")
			resp := performRequest(router, req)
			require.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestAppointmentHandlerCreate(t *testing.T) {
	svc := &appointmentServiceMock{created: &dto.CreateAppointmentResponse{
		Occurrence: &models.Occurrence{ID: "occ-1", OwnerID: "expert-1", Title: "Consultation"},
	}}
	router := buildAppointmentRouter(svc, &mutationServiceMock{})

	body := `{"title":"Consultation","startAt":"2025-01-06T10:00:00Z","endAt":"2025-01-06T11:00:00Z"}`
	req, _ := http.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "expert-1")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, "expert-1", svc.createUser)
	require.Equal(t, "Consultation", svc.createReq.Title)
}

func TestAppointmentHandlerCreateInvalidBody(t *testing.T) {
	router := buildAppointmentRouter(&appointmentServiceMock{}, &mutationServiceMock{})

	req, _ := http.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "expert-1")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAppointmentHandlerCreateServiceError(t *testing.T) {
	svc := &appointmentServiceMock{createErr: appErrors.Validation("endAt", "must be after startAt")}
	router := buildAppointmentRouter(svc, &mutationServiceMock{})

	body := `{"title":"Consultation","startAt":"2025-01-06T10:00:00Z","endAt":"2025-01-06T09:00:00Z"}`
	req, _ := http.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "expert-1")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "endAt")
}

func TestAppointmentHandlerUpdateScopeParsing(t *testing.T) {
	mutations := &mutationServiceMock{updated: &models.Occurrence{ID: "occ-1", Title: "Renamed"}}
	router := buildAppointmentRouter(&appointmentServiceMock{}, mutations)

	cases := []struct {
		raw  string
		want models.MutationScope
	}{
		{"series", models.ScopeSeries},
		{"future", models.ScopeFuture},
		{"", models.ScopeSingle},
		{"bogus", models.ScopeSingle},
	}
	for _, tc := range cases {
		query := ""
		if tc.raw != "" {
			query = "?scope=" + tc.raw
		}
		req, _ := http.NewRequest(http.MethodPatch, "/appointments/occ-1"+query, bytes.NewBufferString(`{"title":"Renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", "expert-1")
		resp := performRequest(router, req)

		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "occ-1", mutations.updateID)
		require.Equal(t, tc.want, mutations.updateScope, "scope %q", tc.raw)
	}
}

func TestAppointmentHandlerUpdateForbidden(t *testing.T) {
	mutations := &mutationServiceMock{updateErr: appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another expert")}
	router := buildAppointmentRouter(&appointmentServiceMock{}, mutations)

	req, _ := http.NewRequest(http.MethodPatch, "/appointments/occ-1", bytes.NewBufferString(`{"title":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "expert-2")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAppointmentHandlerDelete(t *testing.T) {
	mutations := &mutationServiceMock{}
	router := buildAppointmentRouter(&appointmentServiceMock{}, mutations)

	req, _ := http.NewRequest(http.MethodDelete, "/appointments/occ-1?scope=future", nil)
	req.Header.Set("X-Test-User", "expert-1")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	require.Equal(t, "occ-1", mutations.removeID)
	require.Equal(t, models.ScopeFuture, mutations.removeScope)
}

func TestAppointmentHandlerDeleteNotFound(t *testing.T) {
	mutations := &mutationServiceMock{removeErr: appErrors.Clone(appErrors.ErrNotFound, "appointment not found")}
	router := buildAppointmentRouter(&appointmentServiceMock{}, mutations)

	req, _ := http.NewRequest(http.MethodDelete, "/appointments/missing", nil)
	req.Header.Set("X-Test-User", "expert-1")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}
