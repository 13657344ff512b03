package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"travel-booking-service/internal/domain"
	"travel-booking-service/internal/domain/models"
	"travel-booking-service/internal/repositories"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepo{}
	user, hash, err := repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			RespondError(c, http.StatusUnauthorized, "wrong email or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if user.Status != "active" {
		RespondError(c, http.StatusUnauthorized, "account disabled", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "wrong email or password", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(env.TokenTTL).Unix(),
	})
	tokenString, err := token.SignedString([]byte(env.JWTSecret))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		RespondError(c, http.StatusBadRequest, "name and email are required", nil)
		return
	}
	if len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "password must be at least 8 characters", nil)
		return
	}

	repo := repositories.UserRepo{}
	taken, err := repo.EmailTaken(c.Request.Context(), req.Email)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if taken {
		RespondError(c, http.StatusBadRequest, "email already registered", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password", nil)
		return
	}

	// registration always creates a regular user; admins are provisioned
	// directly in the database
	id, err := repo.Create(c.Request.Context(), models.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  models.RoleUser,
	}, string(hash))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered",
		"user": gin.H{
			"id":    id,
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
			"role":  models.RoleUser,
		},
	})
}
