package controllers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Cheruto/shulewear-api/initializers"
	"github.com/Cheruto/shulewear-api/models"
	"github.com/Cheruto/shulewear-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgUserAlreadyExists     = "user already exists"
	msgInvalidAdminCode      = "Invalid admin code"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid username or password"
	msgAccountDeactivated    = "This account has been deactivated. Contact the shop for help."
	msgAccountNotActivated   = "Account not activated, check your email to activate your account."
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgInvalidActivationLink = "Invalid or expired activation link"
	msgActivationSuccess     = "account has been activated successfully."
	msgResetLinkSent         = "Check your email for a password reset link."
	msgUserCreated           = "User created successfully. Check your email to activate your account."
	msgUserNotFound          = "user with this email does not exist"
	msgResetTokenError       = "There was an error trying to generate password reset link. Try again later."
	msgUnableToSaveToken     = "unable to save reset token."
	msgUnableToResetPassword = "unable to reset password"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

// userIDFromContext extracts the authenticated user's id from the JWT claims
// stored by the RequireAuth middleware.
func userIDFromContext(ctx *gin.Context) (int, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return 0, false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(id), true
}

func usernameFromContext(ctx *gin.Context) string {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return ""
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	username, _ := claims["username"].(string)
	return username
}

func checkUserExists(email, username string) (bool, error) {
	var existingUser models.User
	result := initializers.DB.Where("email = ? OR username = ?", email, username).Find(&existingUser)
	return result.RowsAffected > 0, result.Error
}

func findUserByIdentifier(identifier string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ? OR username = ?", identifier, identifier).First(&user)
	return user, result.Error
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", email).First(&user)
	return user, result.Error
}

// validAdminCode compares the submitted code against ADMIN_SIGNUP_CODE in
// constant time. An unset server code rejects everything.
func validAdminCode(submitted string) bool {
	adminCode := os.Getenv("ADMIN_SIGNUP_CODE")
	if adminCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(adminCode)) == 1
}

// Send an account verification email
func sendAccountVerificationEmail(user models.User, activationToken string) error {
	emailData := utils.EmailData{
		Name:      user.Username,
		Message:   "Thank you for signing up! Click the button below to verify your account.",
		ActionURL: os.Getenv("FRONTEND_URL") + "/auth/verify-email?token=" + url.QueryEscape(activationToken),
	}

	templatePath := filepath.Join("templates", "verify_email.html")
	return utils.SendEmail(user.Email, "Account Verification", emailData, templatePath)
}

// Send a password reset email
func sendPasswordResetEmail(user models.User, resetToken string) error {
	emailData := utils.EmailData{
		Name:      user.Username,
		Message:   "You requested a password reset. Click the button below to reset your password.",
		ActionURL: os.Getenv("FRONTEND_URL") + "/auth/reset-password?token=" + url.QueryEscape(resetToken),
	}

	templatePath := filepath.Join("templates", "reset_password.html")
	return utils.SendEmail(user.Email, "Password Reset", emailData, templatePath)
}

// Signup handles user registration. Admin accounts additionally require the
// shop's signup code.
func Signup(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if signUpData.Role == "" {
		signUpData.Role = models.RoleCustomer
	}
	if signUpData.Role != models.RoleCustomer && signUpData.Role != models.RoleAdmin {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if signUpData.Role == models.RoleAdmin && !validAdminCode(signUpData.AdminCode) {
		sendErrorResponse(ctx, http.StatusForbidden, msgInvalidAdminCode)
		return
	}

	exists, err := checkUserExists(signUpData.Email, signUpData.Username)
	if err != nil {
		log.Println("Database error during user check:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	activationToken, err := utils.GenerateCode(16)
	if err != nil {
		log.Println("Token generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	user := models.User{
		Fullname:               signUpData.Fullname,
		Username:               signUpData.Username,
		Email:                  signUpData.Email,
		Phone:                  signUpData.Phone,
		Password:               hashedPassword,
		Role:                   signUpData.Role,
		IsActive:               true,
		AccountActivated:       false,
		AccountActivationToken: activationToken,
	}

	if result := initializers.DB.Create(&user); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	// Send email to the user
	if err := sendAccountVerificationEmail(user, activationToken); err != nil {
		log.Println("Error sending verification email:", err)
		// Continue despite email error, but log it
	} else {
		log.Println("Verification email sent successfully to:", user.Email)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "id": user.ID})
}

// Login handles user authentication
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByIdentifier(loginData.Identifier)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if !user.AccountActivated {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAccountNotActivated)
		return
	}

	if !user.IsActive {
		sendErrorResponse(ctx, http.StatusForbidden, msgAccountDeactivated)
		return
	}

	tokenString, err := generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString})
}

// ActivateAccount activates a user account using the activation token
func ActivateAccount(ctx *gin.Context) {
	activationToken := ctx.Param("activationToken")

	result := initializers.DB.Model(&models.User{}).
		Where("account_activation_token = ? AND account_activation_token <> ''", activationToken).
		Updates(map[string]any{
			"account_activated":        true,
			"account_activation_token": "",
		})

	if result.Error != nil {
		log.Println("Account activation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgActivationSuccess})
}

// SendPasswordResetLink sends a password reset link to the user's email
func SendPasswordResetLink(ctx *gin.Context) {
	type ForgotPasswordBody struct {
		Email string `json:"email" binding:"required,email"`
	}

	var forgotPasswordData ForgotPasswordBody
	if err := ctx.ShouldBindJSON(&forgotPasswordData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(forgotPasswordData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	passwordResetToken, err := utils.GenerateCode(16)
	if err != nil {
		log.Println("Reset token generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgResetTokenError)
		return
	}

	if result := initializers.DB.Model(&models.User{}).
		Where("email = ?", forgotPasswordData.Email).
		Update("password_reset_token", passwordResetToken); result.Error != nil {

		log.Println("Error saving reset token:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToSaveToken)
		return
	}

	if err := sendPasswordResetEmail(user, passwordResetToken); err != nil {
		log.Println("Error sending password reset email:", err)
	} else {
		log.Println("Password reset email sent successfully to:", forgotPasswordData.Email)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

// ResetPassword resets a user's password using a reset token
func ResetPassword(ctx *gin.Context) {
	type ResetPasswordInfo struct {
		Password string `json:"password" binding:"required,min=8"`
	}

	var resetPasswordData ResetPasswordInfo
	if err := ctx.ShouldBindJSON(&resetPasswordData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	hashedPassword, err := hashPassword(resetPasswordData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	resetToken := ctx.Param("resetToken")
	result := initializers.DB.Model(&models.User{}).
		Where("password_reset_token = ? AND password_reset_token <> ''", resetToken).
		Updates(map[string]any{
			"password":             hashedPassword,
			"password_reset_token": "",
		})

	if result.Error != nil {
		log.Println("Error resetting password:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password reset successful"})
}

// GetUsers lists accounts for the admin user-management screen.
func GetUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 15
	}
	offset := (page - 1) * limit

	query := initializers.DB.Model(&models.User{})
	if role := ctx.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := ctx.Query("search"); search != "" {
		query = query.Where("username LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var users []models.User
	if result := query.Limit(limit).Offset(offset).Order("created_at desc").Find(&users); result.Error != nil {
		log.Println("Database error fetching users:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"users": users})
}

// UpdateUserActivation flips the is_active flag on an account.
func UpdateUserActivation(ctx *gin.Context) {
	userId, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Failed to parse userId")
		return
	}

	var body struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	result := initializers.DB.Model(&models.User{}).Where("id = ?", userId).Update("is_active", *body.IsActive)
	if result.Error != nil {
		log.Println("Error updating user activation:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "User not found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "User updated successfully."})
}
