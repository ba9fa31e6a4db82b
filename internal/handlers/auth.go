package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=4,max=12"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"fullname" binding:"required,max=30"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Domain scopes the auth cookies. Set by Init so a value loaded from .env is
// picked up.
var Domain string

func serverURL() string {
	if url := os.Getenv("SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FullName:        user.FullName,
		AvatarURL:       user.AvatarURL,
		IsEmailVerified: user.IsEmailVerified,
	}
}

func setTokenCookie(ctx *gin.Context, name, value string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func RegisterUser(ctx *gin.Context) {
	var body RegisterUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	body.Username = strings.ToLower(strings.TrimSpace(body.Username))

	var existingUser models.User

	err := db.DB.Where("email = ? OR username = ?", body.Email, body.Username).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	secret, digest, expiry, err := auth.NewOneTimeToken()

	if err != nil {
		log.Printf("Failed to generate verification token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Username:                     body.Username,
		Email:                        body.Email,
		FullName:                     body.FullName,
		PasswordHash:                 string(passwordHash),
		EmailVerificationToken:       &digest,
		EmailVerificationTokenExpiry: &expiry,
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	verifyLink := fmt.Sprintf("%s/api/v1/auth/verify-email/%s", serverURL(), secret)

	mail.SendVerificationAsync(newUser.Email, mailerLink(newUser.FullName, verifyLink))

	ctx.JSON(http.StatusCreated, gin.H{
		"user": userResponse(newUser),
	})
}

func LoginUser(ctx *gin.Context) {
	var body LoginUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	var user models.User

	err := db.DB.Where("email = ?", body.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	accessToken, refreshToken, err := issueTokenPair(&user)

	if err != nil {
		log.Printf("Failed to issue tokens: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, "accessToken", accessToken, int(auth.AccessTokenTTL.Seconds()))
	setTokenCookie(ctx, "refreshToken", refreshToken, int(auth.RefreshTokenTTL.Seconds()))

	ctx.JSON(http.StatusOK, gin.H{
		"user":          userResponse(user),
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func issueTokenPair(user *models.User) (string, string, error) {
	accessToken, err := auth.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := auth.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}

	if err := db.DB.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func LogoutUser(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token", nil).Error; err != nil {
		log.Printf("Failed to clear refresh token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, "accessToken", "", -1)
	setTokenCookie(ctx, "refreshToken", "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func VerifyEmail(ctx *gin.Context) {
	token := ctx.Param("token")

	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Not a valid link"})
		return
	}

	digest := auth.HashToken(token)

	var user models.User

	err := db.DB.Where("email_verification_token = ?", digest).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Not a valid token"})
			return
		}
		log.Printf("Database error when verifying email: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// One-time token: cleared on redemption whether it succeeded or expired.
	updates := map[string]interface{}{
		"email_verification_token":        nil,
		"email_verification_token_expiry": nil,
	}

	if user.EmailVerificationTokenExpiry == nil || user.EmailVerificationTokenExpiry.Before(time.Now()) {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("Failed to clear expired verification token: %v", err)
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Link expired"})
		return
	}

	updates["is_email_verified"] = true

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to mark email verified: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func ResendVerificationEmail(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	if err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	if user.IsEmailVerified {
		ctx.JSON(http.StatusOK, gin.H{"message": "User already verified"})
		return
	}

	secret, digest, expiry, err := auth.NewOneTimeToken()

	if err != nil {
		log.Printf("Failed to generate verification token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"email_verification_token":        digest,
		"email_verification_token_expiry": expiry,
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to store verification token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	verifyLink := fmt.Sprintf("%s/api/v1/auth/verify-email/%s", serverURL(), secret)

	mail.SendVerificationAsync(user.Email, mailerLink(user.FullName, verifyLink))

	ctx.JSON(http.StatusOK, gin.H{"message": "Check your email"})
}

func RefreshAccessToken(ctx *gin.Context) {
	tokenString, _ := ctx.Cookie("refreshToken")

	if tokenString == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := ctx.BindJSON(&body); err != nil || body.RefreshToken == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token present"})
			return
		}
		tokenString = body.RefreshToken
	}

	token, err := auth.VerifyRefreshToken(tokenString)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token or token expired"})
		return
	}

	userID, err := auth.UserIDFromToken(token)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != tokenString {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
		return
	}

	accessToken, refreshToken, err := issueTokenPair(&user)

	if err != nil {
		log.Printf("Failed to issue tokens: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setTokenCookie(ctx, "accessToken", accessToken, int(auth.AccessTokenTTL.Seconds()))
	setTokenCookie(ctx, "refreshToken", refreshToken, int(auth.RefreshTokenTTL.Seconds()))

	ctx.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func ForgotPassword(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	var user models.User

	if err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error; err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Not a registered email"})
		return
	}

	secret, digest, expiry, err := auth.NewOneTimeToken()

	if err != nil {
		log.Printf("Failed to generate reset token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"password_reset_token":        digest,
		"password_reset_token_expiry": expiry,
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to store reset token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resetLink := fmt.Sprintf("%s/api/v1/auth/reset-password/%s", serverURL(), secret)

	mail.SendPasswordResetAsync(user.Email, mailerLink(user.FullName, resetLink))

	ctx.JSON(http.StatusOK, gin.H{"message": "Check your registered email"})
}

func ResetPassword(ctx *gin.Context) {
	token := ctx.Param("token")

	var body struct {
		Password string `json:"password" binding:"required,min=8,max=72"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Provide a new password"})
		return
	}

	digest := auth.HashToken(token)

	var user models.User

	err := db.DB.Where("password_reset_token = ?", digest).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
			return
		}
		log.Printf("Database error when resetting password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"password_reset_token":        nil,
		"password_reset_token_expiry": nil,
	}

	if user.PasswordResetTokenExpiry == nil || user.PasswordResetTokenExpiry.Before(time.Now()) {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("Failed to clear expired reset token: %v", err)
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Link expired"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates["password_hash"] = string(passwordHash)

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to reset password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func ChangePassword(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body struct {
		Password string `json:"password" binding:"required,min=8,max=72"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Provide a new password"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(passwordHash)).Error; err != nil {
		log.Printf("Failed to change password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func Profile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
