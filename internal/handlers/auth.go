package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/artfolio/backend/internal/models"
	"github.com/artfolio/backend/internal/repositories"
	"github.com/artfolio/backend/pkg/mailer"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
)

const (
	bcryptCost      = 12
	tokenLifetime   = 30 * 24 * time.Hour
	verifyLifetime  = time.Hour
	resetLifetime   = time.Hour
	resetTokenBytes = 20
)

// GoogleTokenVerifier validates a Google ID token and returns its claims.
// The production implementation calls google.golang.org/api/idtoken.
type GoogleTokenVerifier func(c echo.Context, credential string) (map[string]interface{}, error)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userRepository repositories.UserRepository
	mail           mailer.Sender
	verifyGoogle   GoogleTokenVerifier
	jwtSecret      string
	clientURL      string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, mail mailer.Sender, jwtSecret, clientURL, googleClientID string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		mail:           mail,
		jwtSecret:      jwtSecret,
		clientURL:      clientURL,
		verifyGoogle: func(c echo.Context, credential string) (map[string]interface{}, error) {
			payload, err := idtoken.Validate(c.Request().Context(), credential, googleClientID)
			if err != nil {
				return nil, err
			}
			return payload.Claims, nil
		},
	}
}

// SetGoogleVerifier overrides the Google token verifier.
func (h *AuthHandler) SetGoogleVerifier(v GoogleTokenVerifier) {
	h.verifyGoogle = v
}

// RegisterAuthRoutes registers authentication-related routes.
// authRequired guards the send-verification route only.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/google", h.GoogleLogin)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password/:token", h.ResetPassword)
	g.GET("/verify/:token", h.VerifyEmail)
	g.POST("/send-verification", h.SendVerification, authRequired)
}

type authResponse struct {
	Token string       `json:"token"`
	User  authUserInfo `json:"user"`
}

type authUserInfo struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Username   string             `json:"username"`
	IsVerified bool               `json:"isVerified"`
}

// Signup registers a local account and returns a token for it.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username is already taken")
	}
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: string(hashed),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, authResponse{Token: token, User: userInfo(user)})
}

// Login authenticates a local account.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: userInfo(user)})
}

// GoogleLogin verifies a Google ID token, provisioning an account on first
// sign-in. Google accounts are considered email-verified.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req models.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claims, err := h.verifyGoogle(c, req.Credential)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication failed")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	subject, _ := claims["sub"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication failed")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		username, derr := h.deriveUsername(c, email)
		if derr != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, derr.Error())
		}
		user = &models.User{
			Name:           name,
			Email:          email,
			Username:       username,
			ProfilePicture: picture,
			GoogleID:       subject,
			IsVerified:     true,
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else if !user.IsVerified {
		// An existing local account signing in with Google proves the email.
		if err := h.userRepository.SetVerified(ctx, user.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		user.IsVerified = true
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: userInfo(user)})
}

// deriveUsername takes the local part of the email and appends a counter
// until the username is free.
func (h *AuthHandler) deriveUsername(c echo.Context, email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	username := base
	for counter := 1; ; counter++ {
		taken, err := h.userRepository.UsernameTaken(c.Request().Context(), username, primitive.NilObjectID)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

// SendVerification mails a one-hour verification link to the current user.
func (h *AuthHandler) SendVerification(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if user.IsVerified {
		return echo.NewHTTPError(http.StatusBadRequest, "User is already verified")
	}

	claims := &models.VerificationClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(verifyLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate verification token")
	}

	body := fmt.Sprintf("Please click on this link to verify your email: %s/verify/%s", h.clientURL, token)
	if err := h.mail.Send(user.Email, "Verify Your Email", body); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send verification email")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Verification email sent. Please check your email."})
}

// VerifyEmail consumes a verification link token.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	claims := &models.VerificationClaims{}
	token, err := jwt.ParseWithClaims(c.Param("token"), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired verification token")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired verification token")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if user.IsVerified {
		return c.JSON(http.StatusOK, echo.Map{"message": "Email verified successfully.", "status": "success"})
	}

	if err := h.userRepository.SetVerified(ctx, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Email verified successfully. You can now post artworks.",
		"status":  "verified",
	})
}

// ForgotPassword mails a one-hour password reset link. Only the SHA-256 hash
// of the token is stored.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate reset token")
	}
	resetToken := hex.EncodeToString(raw)

	if err := h.userRepository.SetResetToken(ctx, user.ID, hashToken(resetToken), time.Now().Add(resetLifetime)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	body := fmt.Sprintf(
		"You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n"+
			"Please click on the following link, or paste this into your browser to complete the process:\n\n%s/reset-password/%s\n\n"+
			"If you did not request this, please ignore this email and your password will remain unchanged.\n",
		h.clientURL, resetToken)
	if err := h.mail.Send(user.Email, "Password Reset", body); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send password reset email")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent"})
}

// ResetPassword consumes a reset link token and replaces the password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByResetToken(ctx, hashToken(c.Param("token")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Password reset token is invalid or has expired")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}
	if err := h.userRepository.ResetPassword(ctx, user.ID, string(hashed)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func userInfo(user *models.User) authUserInfo {
	return authUserInfo{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Username:   user.Username,
		IsVerified: user.IsVerified,
	}
}

// generateJWT signs a 30-day token carrying the user's identity claims.
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		ID:       user.ID.Hex(),
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}
