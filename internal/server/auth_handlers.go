package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tripjournal/tripjournal/internal/auth"
	"github.com/tripjournal/tripjournal/internal/models"
)

// SignupRequest represents a signup request
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=15,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
	Nickname string `json:"nickname" validate:"max=30"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	User      *UserDetail `json:"user"`
}

// UserDetail represents user information returned in responses
type UserDetail struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func userDetail(u *models.User) *UserDetail {
	return &UserDetail{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt.Format(timestampLayout),
	}
}

func (s *Server) signup(c *gin.Context) {
	var req SignupRequest
	if !s.bindJSON(c, &req) {
		return
	}

	if exists, err := s.userExists("username", req.Username); err != nil {
		s.logger.Error().Err(err).Msg("Failed to check username")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	} else if exists {
		respondError(c, http.StatusConflict, "Username is already taken")
		return
	}
	if exists, err := s.userExists("email", req.Email); err != nil {
		s.logger.Error().Err(err).Msg("Failed to check email")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	} else if exists {
		respondError(c, http.StatusConflict, "Email is already registered")
		return
	}

	// Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Nickname:     req.Nickname,
	}
	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		respondError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User signed up")
	respond(c, http.StatusCreated, "Sign up complete. Please log in.", userDetail(user))
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if !s.bindJSON(c, &req) {
		return
	}

	// Find user by username or email
	var user models.User
	err := s.db.Where("username = ? OR email = ?", req.UsernameOrEmail, req.UsernameOrEmail).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	// Generate JWT token
	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		respondError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User logged in")

	respond(c, http.StatusOK, "Login successful", LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      userDetail(&user),
	})
}

func (s *Server) checkUsername(c *gin.Context) {
	s.checkAvailability(c, "username", "Username is already taken", "Username is available")
}

func (s *Server) checkEmail(c *gin.Context) {
	s.checkAvailability(c, "email", "Email is already registered", "Email is available")
}

// checkAvailability answers with data=true when the value is already used
func (s *Server) checkAvailability(c *gin.Context, column, takenMsg, freeMsg string) {
	value := c.Query(column)
	if value == "" {
		respondError(c, http.StatusBadRequest, column+" is required")
		return
	}

	exists, err := s.userExists(column, value)
	if err != nil {
		s.logger.Error().Err(err).Str("column", column).Msg("Failed to check availability")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	message := freeMsg
	if exists {
		message = takenMsg
	}
	respond(c, http.StatusOK, message, exists)
}

func (s *Server) userExists(column, value string) (bool, error) {
	var count int64
	// column is one of a fixed set, never user input
	err := s.db.Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

func (s *Server) getCurrentUser(c *gin.Context) {
	sess := mustSession(c)

	var user models.User
	if err := models.FindByID(s.db, sess.UserID, &user); err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	respond(c, http.StatusOK, "", userDetail(&user))
}
