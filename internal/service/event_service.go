package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/media"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/sanitize"
)

const (
	msgEventNotFound = "Event not found"
	msgNotEventOwner = "You are not the owner of this event!"
	msgEndAfterStart = "End time must be after start time"
)

// EventInput is a new event. Image is optional raw upload data.
type EventInput struct {
	Title         string
	Date          time.Time
	StartTime     time.Time
	EndTime       time.Time
	StreetAddress string
	PostalCode    string
	Description   string
	Hobbies       []string
	Image         []byte
}

// EventUpdate is an admin edit of an event.
type EventUpdate struct {
	Title         *string
	Date          *time.Time
	StartTime     *time.Time
	EndTime       *time.Time
	StreetAddress *string
	PostalCode    *string
	Description   *string
	Hobbies       *[]string
}

// EventService exposes event operations.
type EventService interface {
	List(ctx context.Context) ([]model.Event, error)
	ListNearby(ctx context.Context, caller *auth.Identity) ([]model.Event, error)
	ListByUser(ctx context.Context, userID string) ([]model.Event, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, caller *auth.Identity, in EventInput) (*model.Event, error)
	Delete(ctx context.Context, caller *auth.Identity, id string) error
	ToggleLike(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error)
	ToggleRSVP(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error)

	Update(ctx context.Context, id string, in EventUpdate) (*model.Event, error)
	Remove(ctx context.Context, id string) error
}

type eventService struct {
	events repository.EventRepository
	users  repository.UserRepository
	likes  repository.ToggleRepository
	rsvps  repository.ToggleRepository
	media  MediaStore
	feed   feed
}

// NewEventService builds an EventService. cache may be nil.
func NewEventService(
	events repository.EventRepository,
	users repository.UserRepository,
	likes repository.ToggleRepository,
	rsvps repository.ToggleRepository,
	media MediaStore,
	cache FeedCache,
	cacheTTL time.Duration,
) EventService {
	return &eventService{
		events: events,
		users:  users,
		likes:  likes,
		rsvps:  rsvps,
		media:  media,
		feed:   feed{cache: cache, prefix: "events", ttl: cacheTTL},
	}
}

func (s *eventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ListNearby(ctx context.Context, caller *auth.Identity) ([]model.Event, error) {
	postalCode, err := callerPostalCode(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	if s.feed.get(ctx, postalCode, &events) {
		return events, nil
	}

	events, err = s.events.FindByPostalCode(ctx, postalCode)
	if err != nil {
		return nil, fmt.Errorf("list events by postal code: %w", err)
	}
	s.feed.put(ctx, postalCode, events)
	return events, nil
}

func (s *eventService) ListByUser(ctx context.Context, userID string) ([]model.Event, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.FindByCreator(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list events by user: %w", err)
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	event, err := s.events.FindByID(ctx, oid)
	if err != nil {
		return nil, notFound(err, msgEventNotFound, "get event")
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, caller *auth.Identity, in EventInput) (*model.Event, error) {
	owner, err := parseID(caller.ID)
	if err != nil {
		return nil, err
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, apperrors.Validation([]apperrors.FieldError{{Field: "endTime", Msg: msgEndAfterStart}})
	}

	image := model.DefaultEventImage
	if len(in.Image) > 0 {
		uploaded, err := s.media.Upload(ctx, media.FolderEvents, in.Image)
		if err != nil {
			return nil, mediaError(err)
		}
		image = *uploaded
	}

	event := &model.Event{
		EventImage:    image,
		Title:         sanitize.Text(in.Title),
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		StreetAddress: sanitize.Text(in.StreetAddress),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		Description:   sanitize.Text(in.Description),
		Hobbies:       sanitize.Strings(in.Hobbies),
		CreatedBy:     owner,
	}
	if err := s.events.Create(ctx, event); err != nil {
		s.media.Delete(ctx, image.Key)
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.feed.invalidate(ctx, event.PostalCode)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, caller *auth.Identity, id string) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwner(caller, event.CreatedBy, msgNotEventOwner); err != nil {
		return err
	}
	return s.remove(ctx, event.ID)
}

func (s *eventService) ToggleLike(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error) {
	return s.toggle(ctx, s.likes, caller, id)
}

func (s *eventService) ToggleRSVP(ctx context.Context, caller *auth.Identity, id string) (*model.ToggleState, error) {
	return s.toggle(ctx, s.rsvps, caller, id)
}

func (s *eventService) toggle(ctx context.Context, repo repository.ToggleRepository, caller *auth.Identity, id string) (*model.ToggleState, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user, err := parseID(caller.ID)
	if err != nil {
		return nil, err
	}
	state, err := repo.Toggle(ctx, event.ID, user)
	if err != nil {
		return nil, fmt.Errorf("toggle event: %w", err)
	}
	return state, nil
}

func (s *eventService) Update(ctx context.Context, id string, in EventUpdate) (*model.Event, error) {
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := before.StartTime, before.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if !end.After(start) {
		return nil, apperrors.Validation([]apperrors.FieldError{{Field: "endTime", Msg: msgEndAfterStart}})
	}

	changes := model.EventChanges{
		Title:         sanitize.Ptr(in.Title),
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		StreetAddress: sanitize.Ptr(in.StreetAddress),
		PostalCode:    trimPtr(in.PostalCode),
		Description:   sanitize.Ptr(in.Description),
	}
	if in.Hobbies != nil {
		hobbies := sanitize.Strings(*in.Hobbies)
		changes.Hobbies = &hobbies
	}

	event, err := s.events.UpdateByID(ctx, before.ID, changes)
	if err != nil {
		return nil, notFound(err, msgEventNotFound, "update event")
	}
	s.feed.invalidate(ctx, before.PostalCode, event.PostalCode)
	return event, nil
}

func (s *eventService) Remove(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.remove(ctx, oid)
}

func (s *eventService) remove(ctx context.Context, id primitive.ObjectID) error {
	event, err := s.events.DeleteByID(ctx, id)
	if err != nil {
		return notFound(err, msgEventNotFound, "delete event")
	}
	if _, err := s.likes.DeleteByTarget(ctx, id); err != nil {
		return fmt.Errorf("delete event likes: %w", err)
	}
	if _, err := s.rsvps.DeleteByTarget(ctx, id); err != nil {
		return fmt.Errorf("delete event rsvps: %w", err)
	}
	s.media.Delete(ctx, event.EventImage.Key)
	s.feed.invalidate(ctx, event.PostalCode)
	return nil
}
