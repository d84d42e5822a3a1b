package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"neighborconnect/internal/auth"
	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/media"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/sanitize"
)

const (
	msgUserNotFound     = "User not found"
	msgUpdateOwnProfile = "You can only update your own profile!"
	msgDeleteOwnAccount = "You can only delete your own account!"
)

// ProfileUpdate is the set of fields a member may change on their own
// profile. Nil fields are left untouched.
type ProfileUpdate struct {
	Name          *string
	StreetAddress *string
	PostalCode    *string
	Phone         *string
	Bio           *string
	Hobbies       *[]string
}

// AdminUserUpdate extends ProfileUpdate with fields only admins may change.
type AdminUserUpdate struct {
	ProfileUpdate
	Email *string
	Role  *model.Role
}

// AdminUserInput creates a user on behalf of an admin.
type AdminUserInput struct {
	SignupInput
	Role model.Role
}

// UserService exposes domain operations.
type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	ListByPostalCode(ctx context.Context, postalCode string) ([]model.User, error)
	UpdateSelf(ctx context.Context, caller *auth.Identity, id string, in ProfileUpdate) (*model.User, error)
	DeleteSelf(ctx context.Context, caller *auth.Identity, id string) error
	UploadAvatar(ctx context.Context, caller *auth.Identity, data []byte) (*model.User, error)
	UploadCover(ctx context.Context, caller *auth.Identity, data []byte) (*model.User, error)

	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, in AdminUserInput) (*model.User, error)
	Update(ctx context.Context, id string, in AdminUserUpdate) (*model.User, error)
	Delete(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo   repository.UserRepository
	hasher *auth.PasswordHasher
	media  MediaStore
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher, media MediaStore) UserService {
	return &userService{repo: repo, hasher: hasher, media: media}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, notFound(err, msgUserNotFound, "get user")
	}
	return user, nil
}

func (s *userService) ListByPostalCode(ctx context.Context, postalCode string) ([]model.User, error) {
	users, err := s.repo.FindByPostalCode(ctx, strings.TrimSpace(postalCode))
	if err != nil {
		return nil, fmt.Errorf("list users by postal code: %w", err)
	}
	return users, nil
}

func (s *userService) UpdateSelf(ctx context.Context, caller *auth.Identity, id string, in ProfileUpdate) (*model.User, error) {
	if err := auth.RequireSelf(caller, id, msgUpdateOwnProfile); err != nil {
		return nil, err
	}
	return s.update(ctx, id, in.changes())
}

func (s *userService) DeleteSelf(ctx context.Context, caller *auth.Identity, id string) error {
	if err := auth.RequireSelf(caller, id, msgDeleteOwnAccount); err != nil {
		return err
	}
	_, err := s.Delete(ctx, id)
	return err
}

func (s *userService) UploadAvatar(ctx context.Context, caller *auth.Identity, data []byte) (*model.User, error) {
	return s.uploadImage(ctx, caller, media.FolderAvatars, data, func(u *model.User) *model.Image { return u.Avatar },
		func(img *model.Image) model.UserChanges { return model.UserChanges{Avatar: img} })
}

func (s *userService) UploadCover(ctx context.Context, caller *auth.Identity, data []byte) (*model.User, error) {
	return s.uploadImage(ctx, caller, media.FolderCovers, data, func(u *model.User) *model.Image { return u.Cover },
		func(img *model.Image) model.UserChanges { return model.UserChanges{Cover: img} })
}

// uploadImage stores the new image, points the user at it and then removes
// the previous one.
func (s *userService) uploadImage(
	ctx context.Context,
	caller *auth.Identity,
	folder string,
	data []byte,
	current func(*model.User) *model.Image,
	changes func(*model.Image) model.UserChanges,
) (*model.User, error) {
	user, err := s.Get(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	img, err := s.media.Upload(ctx, folder, data)
	if err != nil {
		return nil, mediaError(err)
	}

	updated, err := s.repo.UpdateByID(ctx, user.ID, changes(img))
	if err != nil {
		s.media.Delete(ctx, img.Key)
		return nil, notFound(err, msgUserNotFound, "save image")
	}

	if old := current(user); old != nil {
		s.media.Delete(ctx, old.Key)
	}
	return updated, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Create(ctx context.Context, in AdminUserInput) (*model.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if !role.Valid() {
		role = model.RoleMember
	}
	user := &model.User{
		Name:          sanitize.Text(in.Name),
		Email:         NormalizeEmail(in.Email),
		PasswordHash:  hash,
		Role:          role,
		StreetAddress: sanitize.Text(in.StreetAddress),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		Phone:         strings.TrimSpace(in.Phone),
		Bio:           sanitize.Text(in.Bio),
		Hobbies:       sanitize.Strings(in.Hobbies),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(msgUserExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, in AdminUserUpdate) (*model.User, error) {
	changes := in.ProfileUpdate.changes()
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		changes.Email = &email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.BadRequest("Role must be either member or admin")
		}
		changes.Role = in.Role
	}
	return s.update(ctx, id, changes)
}

func (s *userService) Delete(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.DeleteByID(ctx, oid)
	if err != nil {
		return nil, notFound(err, msgUserNotFound, "delete user")
	}

	if user.Avatar != nil {
		s.media.Delete(ctx, user.Avatar.Key)
	}
	if user.Cover != nil {
		s.media.Delete(ctx, user.Cover.Key)
	}
	return user, nil
}

func (s *userService) update(ctx context.Context, id string, changes model.UserChanges) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateByID(ctx, oid, changes)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(msgUserExists)
		}
		return nil, notFound(err, msgUserNotFound, "update user")
	}
	return user, nil
}

func (p ProfileUpdate) changes() model.UserChanges {
	c := model.UserChanges{
		Name:          sanitize.Ptr(p.Name),
		StreetAddress: sanitize.Ptr(p.StreetAddress),
		Bio:           sanitize.Ptr(p.Bio),
		PostalCode:    trimPtr(p.PostalCode),
		Phone:         trimPtr(p.Phone),
	}
	if p.Hobbies != nil {
		hobbies := sanitize.Strings(*p.Hobbies)
		c.Hobbies = &hobbies
	}
	return c
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
