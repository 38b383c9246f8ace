package utils

import (
	"strings"
	"time"

	"campus-facility-report-system/pkg/middleware"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminToken is the reserved student-id token granting administrator
// privileges. Matching is a naming convention, not a security boundary:
// "admin" exactly or any id prefixed with it.
const AdminToken = "admin"

// ResolveRole applies the admin naming convention once, at account time.
// Every later call carries the result as a capability in the JWT.
func ResolveRole(studentID string) string {
	if studentID == AdminToken || strings.HasPrefix(studentID, AdminToken) {
		return "admin"
	}
	return "student"
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GenerateJWT(studentID, name, role string) (string, error) {
	claims := jwt.MapClaims{
		"student_id": studentID,
		"name":       name,
		"role":       role,
		"exp":        time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}
