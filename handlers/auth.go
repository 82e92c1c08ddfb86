package handlers

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taxdesk/backend/database"
	"github.com/taxdesk/backend/models"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

func init() {
	if len(jwtSecret) == 0 {
		jwtSecret = []byte("default-dev-secret-change-me")
	}
}

// Session lifetimes. Client sessions are short; firm administrators keep
// a dashboard open across the week.
const (
	userTokenTTL  = 24 * time.Hour
	adminTokenTTL = 7 * 24 * time.Hour
)

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Company   string `json:"company"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// register creates an identity with the given role. Email uniqueness
// spans the whole identity table, clients and admins alike.
func register(c *gin.Context, role string) (*models.User, bool) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return nil, false
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return nil, false
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return nil, false
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Company:      req.Company,
		Role:         role,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return nil, false
	}

	return &user, true
}

// authenticate resolves email+password against the identity table and
// checks the expected role. Role mismatch reads the same as a bad
// password from the outside.
func authenticate(c *gin.Context, role string) (*models.User, bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or password"})
		return nil, false
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return nil, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return nil, false
	}

	if user.Role != role {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return nil, false
	}

	return &user, true
}

// issueToken signs an HS256 bearer token for the identity. Admin tokens
// also carry the email, matching what the dashboard displays.
func issueToken(user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": user.Role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	if user.Role == models.RoleAdmin {
		claims["email"] = user.Email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// RegisterUser handles POST /api/auth/register
func RegisterUser(c *gin.Context) {
	user, ok := register(c, models.RoleUser)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
}

// LoginUser handles POST /api/auth/login
func LoginUser(c *gin.Context) {
	user, ok := authenticate(c, models.RoleUser)
	if !ok {
		return
	}

	tokenString, err := issueToken(user, userTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user": gin.H{
			"id":        user.ID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"company":   user.Company,
		},
	})
}

// RegisterAdmin handles POST /api/admin/register
func RegisterAdmin(c *gin.Context) {
	user, ok := register(c, models.RoleAdmin)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
		"adminId": user.ID,
	})
}

// LoginAdmin handles POST /api/admin/login
func LoginAdmin(c *gin.Context) {
	user, ok := authenticate(c, models.RoleAdmin)
	if !ok {
		return
	}

	tokenString, err := issueToken(user, adminTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   tokenString,
		"adminId": user.ID,
		"email":   user.Email,
	})
}

// parseToken validates a bearer token string and returns its claims.
func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthMiddleware protects routes. On success the decoded identity is
// attached to the request context for downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := parseToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		c.Set("userID", uint(sub))
		c.Set("role", role)
		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}

		c.Next()
	}
}

// RequireRole gates a route family on the role claim. Role is data in
// the token, not inferred from which login endpoint was used.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUserID returns the authenticated identity id from the context.
func currentUserID(c *gin.Context) uint {
	return c.GetUint("userID")
}

// findUser fetches a user row by id.
func findUser(id uint) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
