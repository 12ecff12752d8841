package server

import (
	"fmt"
	"log/slog"
	"time"

	"lineup/internal/mapper"
	"lineup/internal/middleware"
	"lineup/internal/models"
	"lineup/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new profile and returns an access token.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	violations := validation.ValidateUsername(req.Username)
	violations = append(violations, validation.ValidateEmail(req.Email)...)
	violations = append(violations, validation.ValidatePassword(req.Password)...)
	if len(violations) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("Invalid signup request", violations.AsFieldViolations()))
	}

	ctx := c.UserContext()

	if existing, err := s.profileRepo.GetByEmail(ctx, req.Email); err != nil {
		return respondServiceError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("An account with this email already exists"))
	}

	if taken, err := s.profileRepo.UsernameExists(ctx, req.Username); err != nil {
		return respondServiceError(c, err)
	} else if taken {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("Username is already taken"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile := &models.Profile{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(profile)
	if err != nil {
		return respondServiceError(c, err)
	}

	slog.InfoContext(ctx, "Profile registered", "profile_id", profile.ID, "username", profile.Username)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"profile": mapper.Profile(profile),
	})
}

// Login verifies credentials and returns an access token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	ctx := c.UserContext()

	profile, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}
	// Same response for unknown email and wrong password.
	if profile == nil || bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(req.Password)) != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid email or password"))
	}

	token, err := s.generateToken(profile)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"profile": mapper.Profile(profile),
	})
}

func (s *Server) generateToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      profile.ID,
		"username": profile.Username,
		"iss":      middleware.TokenIssuer,
		"aud":      middleware.TokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.NewString()[:8])
}
