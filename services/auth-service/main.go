package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"campus-facility-report-system/pkg/database"
	"campus-facility-report-system/pkg/middleware"
	"campus-facility-report-system/pkg/response"
	"campus-facility-report-system/services/auth-service/models"
	"campus-facility-report-system/services/auth-service/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var db *gorm.DB

// isValidStudentID accepts student numbers and the reserved admin ids.
func isValidStudentID(studentID string) bool {
	return len(studentID) >= 4
}

// isValidPassword checks password strength
func isValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 100 {
		return false, "Password too long"
	}
	return true, ""
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] Loaded configuration from .env")
	}
	middleware.SetService("auth-service")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_PORT"),
	)

	if os.Getenv("POSTGRES_HOST") == "" {
		dsn = "host=localhost user=admin password=password dbname=auth_db port=5434 sslmode=disable TimeZone=UTC"
	}

	var err error
	db, err = database.ConnectPostgres(dsn)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to database: %v", err)
	}

	log.Println("[INFO] Running Auto Migration...")
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("[ERROR] Migration failed: %v", err)
	}
	log.Println("[OK] Migration success!")

	http.HandleFunc("/api/auth/register", middleware.LoggerMiddleware(http.HandlerFunc(registerHandler)).ServeHTTP)
	http.HandleFunc("/api/auth/login", middleware.LoggerMiddleware(http.HandlerFunc(loginHandler)).ServeHTTP)

	http.HandleFunc("/api/auth/me", middleware.LoggerMiddleware(middleware.AuthMiddleware(meHandler)).ServeHTTP)

	http.HandleFunc("/health", healthCheckHandler)

	port := ":8081"
	log.Printf("[INFO] Auth Service running on port %s", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		StudentID string `json:"student_id"`
		Password  string `json:"password"`
		Name      string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	input.StudentID = strings.TrimSpace(input.StudentID)

	if input.StudentID == "" || input.Password == "" || input.Name == "" {
		response.Error(w, http.StatusBadRequest, "Student ID, Password, and Name are required", "")
		return
	}

	if !isValidStudentID(input.StudentID) {
		response.Error(w, http.StatusBadRequest, "Student ID must be at least 4 characters", "")
		return
	}

	if valid, msg := isValidPassword(input.Password); !valid {
		response.Error(w, http.StatusBadRequest, msg, "")
		return
	}

	if len(strings.TrimSpace(input.Name)) < 2 {
		response.Error(w, http.StatusBadRequest, "Name must be at least 2 characters", "")
		return
	}

	var existingUser models.User
	if result := db.Where("student_id = ?", input.StudentID).First(&existingUser); result.Error == nil {
		log.Printf("[WARN] Registration attempt with existing student id")
		response.Error(w, http.StatusConflict, "Student ID already registered", "")
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to process registration", "")
		return
	}

	newUser := models.User{
		StudentID: input.StudentID,
		Password:  hashedPassword,
		Name:      strings.TrimSpace(input.Name),
		Role:      utils.ResolveRole(input.StudentID),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("[ERROR] Failed to save user to database: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to save user", "")
		return
	}

	log.Printf("[OK] User registered - Student ID: %s, Role: %s", newUser.StudentID, newUser.Role)

	token, err := utils.GenerateJWT(newUser.StudentID, newUser.Name, newUser.Role)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for student id: %s", newUser.StudentID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token", "")
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"student_id": newUser.StudentID,
		"token":      token,
		"name":       newUser.Name,
		"role":       newUser.Role,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var input struct {
		StudentID string `json:"student_id"`
		Password  string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("[WARN] Invalid login request format")
		response.Error(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	if input.StudentID == "" || input.Password == "" {
		response.Error(w, http.StatusBadRequest, "Student ID and Password are required", "")
		return
	}

	var user models.User
	if err := db.Where("student_id = ?", input.StudentID).First(&user).Error; err != nil {
		log.Printf("[WARN] Failed login attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid student id or password", "")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		log.Printf("[WARN] Invalid password attempt")
		response.Error(w, http.StatusUnauthorized, "Invalid student id or password", "")
		return
	}

	token, err := utils.GenerateJWT(user.StudentID, user.Name, user.Role)
	if err != nil {
		log.Printf("[ERROR] Failed to generate JWT for student id: %s", user.StudentID)
		response.Error(w, http.StatusInternalServerError, "Failed to generate token", "")
		return
	}

	log.Printf("[OK] User logged in - Student ID: %s, Role: %s", user.StudentID, user.Role)

	response.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"student_id": user.StudentID,
		"token":      token,
		"name":       user.Name,
		"role":       user.Role,
	})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve user context", "")
		return
	}

	var user models.User
	if err := db.First(&user, "student_id = ?", claims.StudentID).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}

	response.Success(w, http.StatusOK, "User profile fetched", user)
}

// healthCheckHandler returns service health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "UP",
		"service": "auth-service",
	}

	w.Header().Set("Content-Type", "application/json")

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		health["status"] = "DOWN"
		health["database"] = "disconnected"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		health["database"] = "connected"
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(health)
}
