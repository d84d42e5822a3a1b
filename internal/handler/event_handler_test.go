package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/model"
	"neighborconnect/internal/service"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventService) ListNearby(ctx context.Context, caller *auth.Identity) ([]model.Event, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventService) ListByUser(ctx context.Context, userID string) ([]model.Event, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Create(ctx context.Context, caller *auth.Identity, in service.EventInput) (*model.Event, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *MockEventService) ToggleLike(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ToggleState), args.Error(1)
}

func (m *MockEventService) ToggleRSVP(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ToggleState), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, id string, in service.EventUpdate) (*model.Event, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Remove(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// noopValidator accepts every request; tag rules are covered by the router tests.
type noopValidator struct{}

func (noopValidator) Validate(interface{}) error { return nil }

func newEventContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = noopValidator{}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	auth.SetIdentity(c, &auth.Identity{ID: primitive.NewObjectID().Hex(), Role: model.RoleMember})
	return c, rec
}

func eventFields() map[string]string {
	return map[string]string{
		"title":         "Street cleanup",
		"date":          "2026-05-02",
		"startTime":     "2026-05-02T09:00:00Z",
		"endTime":       "2026-05-02T12:00:00Z",
		"streetAddress": "Main Street 1",
		"postalCode":    "10115",
		"description":   "Bring gloves and good mood.",
	}
}

func TestCreateEventRequest_ParsesTimes(t *testing.T) {
	req := CreateEventRequest{
		Date:      "2026-05-02",
		StartTime: "2026-05-02T09:00:00+02:00",
		EndTime:   "2026-05-02T12:00:00+02:00",
	}
	in, err := req.toInput()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), in.Date)
	assert.Equal(t, 3*time.Hour, in.EndTime.Sub(in.StartTime))

	req.StartTime = "9am"
	req.EndTime = "noon"
	_, err = req.toInput()
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Len(t, apperrors.MapErrorToHTTP(err).Fields, 2)
}

func TestUpdateEventRequest_OnlyParsesPresentFields(t *testing.T) {
	end := "2026-05-02T13:00:00Z"
	in, err := UpdateEventRequest{EndTime: &end}.toUpdate()
	require.NoError(t, err)
	assert.Nil(t, in.Date)
	assert.Nil(t, in.StartTime)
	require.NotNil(t, in.EndTime)
	assert.Equal(t, 13, in.EndTime.Hour())
}

func TestEventHandler_CreateJSON(t *testing.T) {
	svc := new(MockEventService)
	h := NewEventHandler(svc)

	body, err := json.Marshal(eventFields())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/events/event", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newEventContext(t, req)

	created := &model.Event{ID: primitive.NewObjectID(), Title: "Street cleanup"}
	svc.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.EventInput) bool {
		return in.Title == "Street cleanup" && in.Image == nil && in.EndTime.After(in.StartTime)
	})).Return(created, nil)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Event created successfully")
	svc.AssertExpectations(t)
}

func TestEventHandler_CreateMultipartWithImage(t *testing.T) {
	svc := new(MockEventService)
	h := NewEventHandler(svc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range eventFields() {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("image", "flyer.png")
	require.NoError(t, err)
	image := []byte("\x89PNG\r\n\x1a\nrest-of-image")
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/events/event", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	c, rec := newEventContext(t, req)

	svc.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.EventInput) bool {
		return bytes.Equal(in.Image, image) && in.PostalCode == "10115"
	})).Return(&model.Event{ID: primitive.NewObjectID()}, nil)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestEventHandler_CreateRejectsBadTimes(t *testing.T) {
	svc := new(MockEventService)
	h := NewEventHandler(svc)

	fields := eventFields()
	fields["startTime"] = "tomorrow"
	body, err := json.Marshal(fields)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/events/event", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newEventContext(t, req)

	err = h.Create(c)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventHandler_RSVP(t *testing.T) {
	svc := new(MockEventService)
	h := NewEventHandler(svc)

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPost, "/api/events/"+id+"/rsvp", nil)
	c, rec := newEventContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues(id)

	svc.On("ToggleRSVP", mock.Anything, mock.Anything, id).Return(&model.ToggleState{Active: true, Count: 4}, nil)

	require.NoError(t, h.RSVP(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"going":true,"count":4}`, rec.Body.String())
}
