package api

import (
	"net/http"
	"time"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves signup, login and the caller's own account.
type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterClientRequest struct {
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=6"`
	DNI       string     `json:"dni"`
	Names     string     `json:"names" binding:"required"`
	LastNames string     `json:"lastNames"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birthDate"`
	Gender    string     `json:"gender"`
	Address   string     `json:"address"`
	Weight    *float64   `json:"weight"`
	Height    *float64   `json:"height"`
}

type RegisterTrainerRequest struct {
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=6"`
	Names          string   `json:"names" binding:"required"`
	LastNames      string   `json:"lastNames"`
	Specialty      string   `json:"specialty"`
	Certifications []string `json:"certifications"`
	Phone          string   `json:"phone"`
	Bio            string   `json:"bio"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
}

type ProfileResponse struct {
	User    UserResponse    `json:"user"`
	Client  *domain.Client  `json:"client,omitempty"`
	Trainer *domain.Trainer `json:"trainer,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	ProfileResponse
}

// RegisterClient godoc
// @Summary Register a new client
// @Description Creates a client account on the free tier.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterClientRequest true "Registration details"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email or DNI already exists)"
// @Router /auth/register/client [post]
func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.authService.RegisterClient(c.Request.Context(), service.RegisterClientInput{
		Email:     req.Email,
		Password:  req.Password,
		DNI:       req.DNI,
		Names:     req.Names,
		LastNames: req.LastNames,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		Address:   req.Address,
		Weight:    req.Weight,
		Height:    req.Height,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProfileToResponse(profile))
}

// RegisterTrainer godoc
// @Summary Register a new trainer
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterTrainerRequest true "Registration details"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Router /auth/register/trainer [post]
func (h *AuthHandler) RegisterTrainer(c *gin.Context) {
	var req RegisterTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.authService.RegisterTrainer(c.Request.Context(), service.RegisterTrainerInput{
		Email:          req.Email,
		Password:       req.Password,
		Names:          req.Names,
		LastNames:      req.LastNames,
		Specialty:      req.Specialty,
		Certifications: req.Certifications,
		Phone:          req.Phone,
		Bio:            req.Bio,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapProfileToResponse(profile))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 403 {object} gin.H "Account disabled"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, profile, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, ProfileResponse: MapProfileToResponse(profile)})
}

// Me godoc
// @Summary Current account with its profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.Profile(c.Request.Context(), mustPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Auth
// @Accept json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} gin.H "Wrong current password"
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), mustPrincipal(c).UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

func MapProfileToResponse(p *service.Profile) ProfileResponse {
	return ProfileResponse{
		User:    MapUserToResponse(p.User),
		Client:  p.Client,
		Trainer: p.Trainer,
	}
}
