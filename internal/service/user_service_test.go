package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/media"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
)

func newUserService(repo *MockUserRepository, store *MockMediaStore) UserService {
	return NewUserService(repo, auth.NewPasswordHasher(bcrypt.MinCost), store)
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateSelf(t *testing.T) {
	self := primitive.NewObjectID()
	caller := &auth.Identity{ID: self.Hex(), Role: model.RoleMember}

	t.Run("own profile", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("UpdateByID", mock.Anything, self, mock.MatchedBy(func(c model.UserChanges) bool {
			return *c.Name == "Ada" && *c.Bio == "likes engines" && c.Role == nil && c.Email == nil && c.PasswordHash == nil
		})).Return(&model.User{ID: self, Name: "Ada"}, nil)

		user, err := newUserService(repo, nil).UpdateSelf(context.Background(), caller, self.Hex(), ProfileUpdate{
			Name: strPtr("<b>Ada</b>"),
			Bio:  strPtr("likes engines"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
		repo.AssertExpectations(t)
	})

	t.Run("someone else's profile", func(t *testing.T) {
		repo := new(MockUserRepository)
		_, err := newUserService(repo, nil).UpdateSelf(context.Background(), caller, primitive.NewObjectID().Hex(), ProfileUpdate{Name: strPtr("x")})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.EqualError(t, err, "You can only update your own profile!")
		repo.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin still cannot use self route for others", func(t *testing.T) {
		admin := &auth.Identity{ID: primitive.NewObjectID().Hex(), Role: model.RoleAdmin}
		_, err := newUserService(new(MockUserRepository), nil).UpdateSelf(context.Background(), admin, self.Hex(), ProfileUpdate{})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestUserService_DeleteSelf(t *testing.T) {
	self := primitive.NewObjectID()
	caller := &auth.Identity{ID: self.Hex()}

	repo := new(MockUserRepository)
	store := new(MockMediaStore)
	repo.On("DeleteByID", mock.Anything, self).Return(&model.User{ID: self, Avatar: &model.Image{Key: "avatars/a.png"}}, nil)
	store.On("Delete", mock.Anything, "avatars/a.png").Return()

	svc := newUserService(repo, store)
	require.NoError(t, svc.DeleteSelf(context.Background(), caller, self.Hex()))

	err := svc.DeleteSelf(context.Background(), caller, primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "You can only delete your own account!")

	repo.AssertNumberOfCalls(t, "DeleteByID", 1)
	store.AssertExpectations(t)
}

func TestUserService_Get(t *testing.T) {
	repo := new(MockUserRepository)
	missing := primitive.NewObjectID()
	repo.On("FindByID", mock.Anything, missing).Return(nil, repository.ErrNotFound)
	svc := newUserService(repo, nil)

	_, err := svc.Get(context.Background(), missing.Hex())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUserService_UploadAvatar(t *testing.T) {
	self := primitive.NewObjectID()
	caller := &auth.Identity{ID: self.Hex()}
	data := []byte("png bytes")
	newImage := &model.Image{URL: "https://cdn/avatars/new.png", Key: "avatars/new.png"}

	t.Run("replaces previous avatar", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockMediaStore)
		repo.On("FindByID", mock.Anything, self).Return(&model.User{ID: self, Avatar: &model.Image{Key: "avatars/old.png"}}, nil)
		store.On("Upload", mock.Anything, media.FolderAvatars, data).Return(newImage, nil)
		repo.On("UpdateByID", mock.Anything, self, mock.MatchedBy(func(c model.UserChanges) bool {
			return c.Avatar != nil && c.Avatar.Key == "avatars/new.png" && c.Cover == nil
		})).Return(&model.User{ID: self, Avatar: newImage}, nil)
		store.On("Delete", mock.Anything, "avatars/old.png").Return()

		user, err := newUserService(repo, store).UploadAvatar(context.Background(), caller, data)
		require.NoError(t, err)
		assert.Equal(t, newImage, user.Avatar)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("media store down", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockMediaStore)
		repo.On("FindByID", mock.Anything, self).Return(&model.User{ID: self}, nil)
		store.On("Upload", mock.Anything, media.FolderAvatars, data).Return(nil, media.ErrUnavailable)

		_, err := newUserService(repo, store).UploadAvatar(context.Background(), caller, data)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.EqualError(t, err, "Media service unavailable")
	})

	t.Run("unsupported type", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockMediaStore)
		repo.On("FindByID", mock.Anything, self).Return(&model.User{ID: self}, nil)
		store.On("Upload", mock.Anything, media.FolderAvatars, data).Return(nil, media.ErrUnsupportedType)

		_, err := newUserService(repo, store).UploadAvatar(context.Background(), caller, data)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestUserService_AdminUpdate(t *testing.T) {
	target := primitive.NewObjectID()
	admin := model.RoleAdmin

	repo := new(MockUserRepository)
	repo.On("UpdateByID", mock.Anything, target, mock.MatchedBy(func(c model.UserChanges) bool {
		return c.Role != nil && *c.Role == model.RoleAdmin && *c.Email == "grace@example.com"
	})).Return(&model.User{ID: target, Role: model.RoleAdmin}, nil)
	svc := newUserService(repo, nil)

	user, err := svc.Update(context.Background(), target.Hex(), AdminUserUpdate{Role: &admin, Email: strPtr(" Grace@Example.com ")})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())

	bogus := model.Role("root")
	_, err = svc.Update(context.Background(), target.Hex(), AdminUserUpdate{Role: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUserService_AdminCreate(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleAdmin && u.Email == "grace@example.com"
	})).Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()
	svc := newUserService(repo, nil)

	in := AdminUserInput{SignupInput: SignupInput{Email: "Grace@example.com", Password: "Secret#123"}, Role: model.RoleAdmin}
	user, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
