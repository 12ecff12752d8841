// Package service provides application business logic (profiles, chat, posts, etc.).
package service

import (
	"context"

	"lineup/internal/cache"
	"lineup/internal/models"
	"lineup/internal/repository"
	"lineup/internal/validation"
)

// ProfileService provides profile business logic.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// UpdateProfileInput carries the patchable profile fields. Nil means the field
// was absent from the request and keeps its stored value.
type UpdateProfileInput struct {
	ProfileID           string
	FirstName           *string
	LastName            *string
	Location            *string
	PhoneCountryCode    *string
	PhoneNumber         *string
	YearOfBirth         *int
	AvatarURL           *string
	Bio                 *string
	AboutMe             *string
	ThemeColor          *string
	SpotifyPlaylistURL  *string
	OnboardingCompleted *bool
}

// NewProfileService returns a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// GetProfile returns the profile by ID, served from the cache when possible.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := cache.Aside(ctx, cache.ProfileKey(id), &profile, cache.ProfileTTL, func() error {
		p, err := s.profileRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the provided fields and leaves the rest untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		profile.FirstName = in.FirstName
	}
	if in.LastName != nil {
		profile.LastName = in.LastName
	}
	if in.Location != nil {
		profile.Location = in.Location
	}
	if in.PhoneCountryCode != nil {
		profile.PhoneCountryCode = in.PhoneCountryCode
	}
	if in.PhoneNumber != nil {
		profile.PhoneNumber = in.PhoneNumber
	}
	if in.YearOfBirth != nil {
		profile.YearOfBirth = in.YearOfBirth
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = in.AvatarURL
	}
	if in.Bio != nil {
		profile.Bio = in.Bio
	}
	if in.AboutMe != nil {
		profile.AboutMe = in.AboutMe
	}
	if in.ThemeColor != nil {
		profile.ThemeColor = in.ThemeColor
	}
	if in.SpotifyPlaylistURL != nil {
		profile.SpotifyPlaylistURL = in.SpotifyPlaylistURL
	}
	if in.OnboardingCompleted != nil {
		profile.OnboardingCompleted = *in.OnboardingCompleted
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, profile.ID)
	return profile, nil
}

// CheckUsernameAvailability reports whether the username can be claimed.
// Usernames that fail validation are reported unavailable without touching
// storage.
func (s *ProfileService) CheckUsernameAvailability(ctx context.Context, username string) (bool, error) {
	if violations := validation.ValidateUsername(username); len(violations) > 0 {
		return false, models.NewFieldValidationError("Invalid username", violations.AsFieldViolations())
	}

	exists, err := s.profileRepo.UsernameExists(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ListProfiles returns a page of profiles.
func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}
