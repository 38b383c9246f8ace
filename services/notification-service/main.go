package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"campus-facility-report-system/pkg/middleware"
	"campus-facility-report-system/pkg/queue"
	"campus-facility-report-system/services/report-service/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification is what subscribed clients receive over SSE.
type Notification struct {
	Type       string         `json:"type"` // new_report, status_update
	ReportID   int64          `json:"report_id"`
	Location   string         `json:"location"`
	Urgency    models.Urgency `json:"urgency"`
	Status     models.Status  `json:"status"`
	ReporterID string         `json:"reporter_id,omitempty"`
	Deadline   string         `json:"deadline,omitempty"`
	Message    string         `json:"message"`
	CreatedAt  time.Time      `json:"created_at"`
}

type Client struct {
	StudentID string
	IsAdmin   bool
	Send      chan Notification
}

var (
	clients    = make(map[*Client]bool)
	broadcast  = make(chan Notification, 100)
	register   = make(chan *Client)
	unregister = make(chan *Client)
	mu         sync.RWMutex
)

func validateToken(tokenString string) (*middleware.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return middleware.JWTSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*middleware.UserClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] Loaded configuration from .env")
	}
	middleware.SetService("notification-service")

	rabbitMQURL := os.Getenv("RABBITMQ_URL")
	if rabbitMQURL == "" {
		host := os.Getenv("RABBITMQ_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("RABBITMQ_PORT")
		if port == "" {
			port = "5672"
		}
		user := os.Getenv("RABBITMQ_USER")
		if user == "" {
			user = "guest"
		}
		pass := os.Getenv("RABBITMQ_PASS")
		if pass == "" {
			pass = "guest"
		}
		rabbitMQURL = fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)
	}

	conn, ch, err := queue.ConnectRabbitMQ(rabbitMQURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()
	log.Println("[OK] Connected to RabbitMQ")

	if err := queue.DeclareReportsExchange(ch); err != nil {
		log.Fatalf("[ERROR] Failed to declare exchange: %v", err)
	}

	queueName, err := queue.BindQueue(ch, "notifications", queue.KeyReportCreated, queue.KeyReportUpdated)
	if err != nil {
		log.Fatalf("[ERROR] Failed to bind queue: %v", err)
	}
	log.Println("[INFO] Listening to notifications queue")

	middleware.RegisterMetrics()

	go consumeEvents(ch, queueName)
	go handleClients()

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("/health", healthHandler)
	apiMux.Handle("/metrics", middleware.GetMetricsHandler())

	apiHandler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(apiMux),
		),
	)

	rootMux := http.NewServeMux()
	rootMux.Handle("/notifications/subscribe", middleware.TraceMiddleware(http.HandlerFunc(subscribeHandler)))
	rootMux.Handle("/subscribe", middleware.TraceMiddleware(http.HandlerFunc(subscribeHandler)))
	rootMux.Handle("/", apiHandler)

	port := os.Getenv("NOTIFICATION_PORT")
	if port == "" {
		port = "8084"
	}

	log.Printf("[INFO] Notification Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, rootMux); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

// consumeEvents turns report lifecycle events into user-facing notifications.
func consumeEvents(ch *amqp.Channel, queueName string) {
	msgs, err := queue.ConsumeMessages(ch, queueName)
	if err != nil {
		log.Fatalf("[ERROR] Failed to register consumer: %v", err)
	}

	for d := range msgs {
		traceID := queue.TraceIDFromDelivery(d)

		var event models.ReportEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			middleware.LogError(traceID, "Failed to parse report event", err)
			continue
		}

		middleware.LogInfo(traceID, fmt.Sprintf("Event received - report %d (%s, %s)", event.ReportID, event.Type, event.Status))

		broadcast <- Notification{
			Type:       event.Type,
			ReportID:   event.ReportID,
			Location:   fmt.Sprintf("%s %s %s", event.Building, event.Floor, event.Room),
			Urgency:    event.Urgency,
			Status:     event.Status,
			ReporterID: event.ReporterID,
			Deadline:   event.Deadline,
			Message:    buildMessage(event),
			CreatedAt:  event.CreatedAt,
		}
	}
}

func buildMessage(event models.ReportEvent) string {
	location := fmt.Sprintf("%s %s %s", event.Building, event.Floor, event.Room)
	switch event.Type {
	case "new_report":
		if event.Urgency == models.UrgencyUrgent {
			return fmt.Sprintf("URGENT fault reported at %s, due by %s", location, event.Deadline)
		}
		return fmt.Sprintf("New fault reported at %s", location)
	case "status_update":
		if event.Status == models.StatusCompleted {
			return fmt.Sprintf("Your report for %s has been completed", location)
		}
		return fmt.Sprintf("Your report for %s is now %s", location, event.Status)
	default:
		return fmt.Sprintf("Report %d updated", event.ReportID)
	}
}

// handleClients owns the client set and fans notifications out to it.
func handleClients() {
	for {
		select {
		case client := <-register:
			mu.Lock()
			clients[client] = true
			mu.Unlock()
			log.Printf("[INFO] Client registered - Student ID: %s (Total clients: %d)", client.StudentID, len(clients))

		case client := <-unregister:
			mu.Lock()
			if _, ok := clients[client]; ok {
				delete(clients, client)
				close(client.Send)
			}
			mu.Unlock()
			log.Printf("[INFO] Client unregistered - Student ID: %s (Total clients: %d)", client.StudentID, len(clients))

		case event := <-broadcast:
			mu.RLock()
			for client := range clients {
				// status_update: send only to the owning reporter
				if event.Type == "status_update" {
					if event.ReporterID == "" || client.StudentID != event.ReporterID {
						continue
					}
				}

				// new_report: send only to admin dashboards
				if event.Type == "new_report" && !client.IsAdmin {
					continue
				}

				select {
				case client.Send <- event:
				default:
					// Client's send channel is full, skip
				}
			}
			mu.RUnlock()
		}
	}
}

// SSE Handler for client subscriptions
func subscribeHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString == "" {
		http.Error(w, "Unauthorized: Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := validateToken(tokenString)
	if err != nil {
		log.Printf("[WARN] Invalid token attempt: %v", err)
		http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	client := &Client{
		StudentID: claims.StudentID,
		IsAdmin:   claims.IsAdmin(),
		Send:      make(chan Notification, 10),
	}

	register <- client
	defer func() {
		unregister <- client
	}()

	// Send initial connection message
	fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected","message":"Connection established"}`)
	w.(http.Flusher).Flush()

	for event := range client.Send {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "data: %s\n\n", string(data))
		w.(http.Flusher).Flush()
	}
}

// Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	mu.RLock()
	connectedClients := len(clients)
	mu.RUnlock()

	health := map[string]interface{}{
		"status":            "UP",
		"service":           "notification-service",
		"connected_clients": connectedClients,
	}

	json.NewEncoder(w).Encode(health)
}
