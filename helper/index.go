package helper

import (
	"errors"
	"event_manager/config"
	"event_manager/database"
	"event_manager/model"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = 60 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

func jwtSecret() []byte {
	return []byte(config.ConfigDefault("JWT_SECRET", "change-me"))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GetUserByEmail returns nil, nil when no user has the email.
func GetUserByEmail(db *gorm.DB, e string) (*model.User, error) {
	var user model.User
	if err := db.Where(&model.User{Email: e}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// PhoneTaken reports whether another user than excludeId uses phone.
func PhoneTaken(db *gorm.DB, phone string, excludeId uint) (bool, error) {
	var count int64
	q := db.Model(&model.User{}).Where("phone = ?", phone)
	if excludeId != 0 {
		q = q.Where("id <> ?", excludeId)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func signToken(tokenClaim model.TokenClaim, kind string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = tokenClaim.UserId
	claims["email"] = tokenClaim.Email
	claims["role"] = tokenClaim.Role
	claims["type"] = kind
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(jwtSecret())
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	return signToken(tokenClaim, "access", AccessTokenTTL)
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	return signToken(tokenClaim, "refresh", RefreshTokenTTL)
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
}

// ClaimFromToken reads a TokenClaim out of a parsed token, checking its type.
func ClaimFromToken(token *jwt.Token, kind string) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token")
	}
	if t, _ := claims["type"].(string); t != kind {
		return model.TokenClaim{}, fmt.Errorf("expected %s token", kind)
	}
	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return model.TokenClaim{}, errors.New("token has no user")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return model.TokenClaim{UserId: uint(id), Email: email, Role: role}, nil
}

// CurrentUser returns the user loaded by middleware.Protected.
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("currentUser").(*model.User)
	return user, ok && user != nil
}

// CurrentClaim is the requester identity as seen by the services.
func CurrentClaim(c *fiber.Ctx) model.TokenClaim {
	user, ok := CurrentUser(c)
	if !ok {
		return model.TokenClaim{}
	}
	return model.TokenClaim{UserId: user.ID, Email: user.Email, Role: user.Role}
}

// LoadUser fetches the token's user from the database.
func LoadUser(claim model.TokenClaim) (*model.User, error) {
	var user model.User
	if err := database.DB.First(&user, claim.UserId).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
