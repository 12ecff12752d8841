package server

import (
	"lineup/internal/mapper"
	"lineup/internal/models"
	"lineup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the body of PATCH /api/profiles/me. Every field is
// optional; absent fields keep their stored values.
type UpdateProfileRequest struct {
	FirstName           *string `json:"firstName"`
	LastName            *string `json:"lastName"`
	Location            *string `json:"location"`
	PhoneCountryCode    *string `json:"phoneCountryCode"`
	PhoneNumber         *string `json:"phoneNumber"`
	YearOfBirth         *int    `json:"yearOfBirth"`
	AvatarURL           *string `json:"avatarUrl"`
	Bio                 *string `json:"bio"`
	AboutMe             *string `json:"aboutMe"`
	ThemeColor          *string `json:"themeColor"`
	SpotifyPlaylistURL  *string `json:"spotifyPlaylistUrl"`
	OnboardingCompleted *bool   `json:"onboardingCompleted"`
}

// GetMyProfile returns the authenticated profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	profile, err := s.profileService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Profile(profile))
}

// UpdateMyProfile applies a partial update to the authenticated profile.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		ProfileID:           userID,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Location:            req.Location,
		PhoneCountryCode:    req.PhoneCountryCode,
		PhoneNumber:         req.PhoneNumber,
		YearOfBirth:         req.YearOfBirth,
		AvatarURL:           req.AvatarURL,
		Bio:                 req.Bio,
		AboutMe:             req.AboutMe,
		ThemeColor:          req.ThemeColor,
		SpotifyPlaylistURL:  req.SpotifyPlaylistURL,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(mapper.Profile(profile))
}

// UsernameAvailable reports whether a username can still be claimed.
// Usernames outside the allowed shape are reported unavailable without
// touching storage.
func (s *Server) UsernameAvailable(c *fiber.Ctx) error {
	username := c.Query("username")

	available, err := s.profileService.CheckUsernameAvailability(c.UserContext(), username)
	if err != nil {
		var appErr *models.AppError
		// Shape violations are a definitive "not available", not an error.
		if asAppError(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return c.JSON(fiber.Map{"username": username, "available": false})
		}
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"username": username, "available": available})
}
