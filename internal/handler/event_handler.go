package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/model"
	"neighborconnect/internal/service"
)

const dateLayout = "2006-01-02"

// EventHandler serves local events.
type EventHandler struct {
	svc service.EventService
}

// NewEventHandler creates a handler layer.
func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// CreateEventRequest is accepted as JSON or multipart form. Times are RFC 3339;
// date may also be a plain YYYY-MM-DD.
type CreateEventRequest struct {
	Title         string   `json:"title" form:"title" validate:"required,min=5"`
	Date          string   `json:"date" form:"date" validate:"required"`
	StartTime     string   `json:"startTime" form:"startTime" validate:"required"`
	EndTime       string   `json:"endTime" form:"endTime" validate:"required"`
	StreetAddress string   `json:"streetAddress" form:"streetAddress" validate:"required"`
	PostalCode    string   `json:"postalCode" form:"postalCode" validate:"required,postalcode"`
	Description   string   `json:"description" form:"description" validate:"required,min=10"`
	Hobbies       []string `json:"hobbies" form:"hobbies" validate:"omitempty,dive,max=50"`
}

// UpdateEventRequest holds the fields an admin may change on an event.
type UpdateEventRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=5"`
	Date          *string   `json:"date"`
	StartTime     *string   `json:"startTime"`
	EndTime       *string   `json:"endTime"`
	StreetAddress *string   `json:"streetAddress" validate:"omitempty,min=1"`
	PostalCode    *string   `json:"postalCode" validate:"omitempty,postalcode"`
	Description   *string   `json:"description" validate:"omitempty,min=10"`
	Hobbies       *[]string `json:"hobbies" validate:"omitempty,dive,max=50"`
}

// EventCreatedResponse is returned after an event is created.
type EventCreatedResponse struct {
	Message string       `json:"message"`
	Event   *model.Event `json:"event"`
}

// RSVPResponse reports the caller's attendance after a toggle.
type RSVPResponse struct {
	Going bool  `json:"going"`
	Count int64 `json:"count"`
}

// timeParser collects field errors so a request reports every bad timestamp at once.
type timeParser struct {
	fields []apperrors.FieldError
}

func (p *timeParser) parse(field, raw string, layouts ...string) time.Time {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	p.fields = append(p.fields, apperrors.FieldError{Field: field, Msg: "Invalid " + field})
	return time.Time{}
}

func (p *timeParser) parsePtr(field string, raw *string, layouts ...string) *time.Time {
	if raw == nil {
		return nil
	}
	t := p.parse(field, *raw, layouts...)
	return &t
}

func (p *timeParser) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return apperrors.Validation(p.fields)
}

func (r CreateEventRequest) toInput() (service.EventInput, error) {
	var p timeParser
	in := service.EventInput{
		Title:         r.Title,
		Date:          p.parse("date", r.Date, dateLayout, time.RFC3339),
		StartTime:     p.parse("startTime", r.StartTime, time.RFC3339),
		EndTime:       p.parse("endTime", r.EndTime, time.RFC3339),
		StreetAddress: r.StreetAddress,
		PostalCode:    r.PostalCode,
		Description:   r.Description,
		Hobbies:       r.Hobbies,
	}
	return in, p.err()
}

func (r UpdateEventRequest) toUpdate() (service.EventUpdate, error) {
	var p timeParser
	in := service.EventUpdate{
		Title:         r.Title,
		Date:          p.parsePtr("date", r.Date, dateLayout, time.RFC3339),
		StartTime:     p.parsePtr("startTime", r.StartTime, time.RFC3339),
		EndTime:       p.parsePtr("endTime", r.EndTime, time.RFC3339),
		StreetAddress: r.StreetAddress,
		PostalCode:    r.PostalCode,
		Description:   r.Description,
		Hobbies:       r.Hobbies,
	}
	return in, p.err()
}

// List godoc
// @Summary List all events
// @Tags events
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Event
// @Router /events/all/events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Nearby godoc
// @Summary List events in the caller's postal code
// @Tags events
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Event
// @Router /events/zip [get]
func (h *EventHandler) Nearby(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	events, err := h.svc.ListNearby(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Description Accepts JSON, or multipart form with an optional image file.
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security CookieAuth
// @Param request body CreateEventRequest true "Event"
// @Success 201 {object} EventCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /events/event [post]
func (h *EventHandler) Create(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	var req CreateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}

	image, ok, err := readImage(c, "image")
	if err != nil {
		return err
	}
	if ok {
		in.Image = image
	}

	event, err := h.svc.Create(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, EventCreatedResponse{Message: "Event created successfully", Event: event})
}

// ByUser godoc
// @Summary List events created by a user
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {array} model.Event
// @Router /events/user/{id} [get]
func (h *EventHandler) ByUser(c echo.Context) error {
	events, err := h.svc.ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Get godoc
// @Summary Get event by id
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID"
// @Success 200 {object} model.Event
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete godoc
// @Summary Delete own event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted successfully"})
}

// Like godoc
// @Summary Like or unlike an event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID"
// @Success 200 {object} LikeResponse
// @Router /events/{id}/like [post]
func (h *EventHandler) Like(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	state, err := h.svc.ToggleLike(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LikeResponse{Liked: state.Active, Count: state.Count})
}

// RSVP godoc
// @Summary Toggle attendance for an event
// @Tags events
// @Produce json
// @Security CookieAuth
// @Param id path string true "Event ID"
// @Success 200 {object} RSVPResponse
// @Router /events/{id}/rsvp [post]
func (h *EventHandler) RSVP(c echo.Context) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	state, err := h.svc.ToggleRSVP(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RSVPResponse{Going: state.Active, Count: state.Count})
}
