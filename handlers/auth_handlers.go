// api/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"panelstats/api/models"
	"panelstats/api/store"
	"panelstats/api/utils"
)

const tokenCookie = "jwt_token"

type AuthHandlers struct {
	Operators OperatorStore
	Tokens    *utils.TokenIssuer
	TokenTTL  time.Duration
}

func NewAuthHandlers(operators OperatorStore, tokens *utils.TokenIssuer, ttl time.Duration) *AuthHandlers {
	return &AuthHandlers{Operators: operators, Tokens: tokens, TokenTTL: ttl}
}

func (h *AuthHandlers) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	_, err := h.Operators.GetOperatorByEmail(c.Request.Context(), req.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Operator with this email already exists"})
		return
	}
	if !errors.Is(err, store.ErrOperatorNotFound) {
		log.Printf("ERROR: Database error during signup email check: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check operator existence"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	op, err := h.Operators.CreateOperator(c.Request.Context(), req.Email, hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrOperatorExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Operator with this email already exists"})
			return
		}
		log.Printf("ERROR: Failed to create operator for email %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register operator"})
		return
	}

	log.Printf("Operator registered: ID=%d, Email=%s", op.ID, op.Email)
	c.JSON(http.StatusCreated, gin.H{"message": "Operator registered successfully", "email": op.Email})
}

// Login checks the operator's password and issues a JWT cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	op, err := h.Operators.GetOperatorByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("Login failed for email %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(op.HashedPassword, []byte(req.Password)); err != nil {
		log.Printf("Login failed for email %s: password mismatch", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := h.Tokens.GenerateJWT(op)
	if err != nil {
		log.Printf("ERROR: Failed to generate JWT for operator %d: %v", op.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetCookie(tokenCookie, tokenString, int(h.TokenTTL/time.Second), "/", "", false, true)

	log.Printf("Operator logged in: ID=%d, Email=%s", op.ID, op.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"email":   op.Email,
		"token":   tokenString,
	})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
