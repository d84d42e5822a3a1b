package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/media"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
)

const msgInvalidID = "Invalid ID!"

// MediaStore uploads and removes images. media.Store implements it.
type MediaStore interface {
	Upload(ctx context.Context, folder string, data []byte) (*model.Image, error)
	Delete(ctx context.Context, key string)
}

// FeedCache holds per-postal-code listings. cache.Client implements it.
type FeedCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest(msgInvalidID)
	}
	return oid, nil
}

// notFound turns repository.ErrNotFound into a 404 with message and wraps
// everything else.
func notFound(err error, message, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mediaError(err error) error {
	switch {
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrTooLarge):
		return apperrors.BadRequest(err.Error())
	case errors.Is(err, media.ErrUnavailable):
		return apperrors.Unavailable("Media service unavailable")
	default:
		return fmt.Errorf("upload image: %w", err)
	}
}

// feed wraps an optional FeedCache. A nil cache turns every call into a miss.
type feed struct {
	cache  FeedCache
	prefix string
	ttl    time.Duration
}

func (f feed) key(postalCode string) string {
	return "feed:" + f.prefix + ":" + postalCode
}

func (f feed) get(ctx context.Context, postalCode string, dst interface{}) bool {
	if f.cache == nil || postalCode == "" {
		return false
	}
	return f.cache.GetJSON(ctx, f.key(postalCode), dst)
}

func (f feed) put(ctx context.Context, postalCode string, value interface{}) {
	if f.cache == nil || postalCode == "" {
		return
	}
	_ = f.cache.SetJSON(ctx, f.key(postalCode), value, f.ttl)
}

func (f feed) invalidate(ctx context.Context, postalCodes ...string) {
	if f.cache == nil {
		return
	}
	keys := make([]string, 0, len(postalCodes))
	for _, pc := range postalCodes {
		if pc != "" {
			keys = append(keys, f.key(pc))
		}
	}
	_ = f.cache.Delete(ctx, keys...)
}
