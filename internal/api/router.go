package api

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/api/recovery"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/services"
)

// Deps carries everything the router binds to routes. All fields are required
// except Location, which defaults to the server's local zone.
type Deps struct {
	Generator    Generator
	Credentialed bool
	GenTimeout   time.Duration

	Memories *services.MemoryService
	Families *services.FamilyService
	Chat     *services.ChatService
	Devices  *services.DeviceService

	Verifier  auth.Verifier
	IsHealthy func() bool
	Location  *time.Location
	Log       zerolog.Logger
}

// NewRouter builds the HTTP router for all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)

	scrapbookHandler := NewScrapbookHandler(d.Generator, d.Verifier, d.Credentialed, d.GenTimeout, d.Log)
	memoryHandler := NewMemoryHandler(d.Memories, d.Verifier, d.Location)
	familyHandler := NewFamilyHandler(d.Families, d.Verifier)
	chatHandler := NewChatHandler(d.Chat, d.Verifier)
	deviceHandler := NewDeviceHandler(d.Devices, d.Verifier)
	healthHandler := NewHealthHandler(d.IsHealthy)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Scrapbook generation (the callable)
	router.HandleFunc("/api/scrapbooks/generate", scrapbookHandler.Generate).Methods("POST")

	// Family endpoints
	router.HandleFunc("/api/families", familyHandler.CreateFamily).Methods("POST")
	router.HandleFunc("/api/families/{familyId}", familyHandler.GetFamily).Methods("GET")

	// Memory endpoints
	router.HandleFunc("/api/families/{familyId}/memories", memoryHandler.CreateRecord).Methods("POST")
	router.HandleFunc("/api/families/{familyId}/memories", memoryHandler.ListDay).Methods("GET")
	router.HandleFunc("/api/families/{familyId}/memories/{memoryId}/reactions", memoryHandler.SetReaction).Methods("PATCH")

	// Chat endpoint (publishes the notification-fanout event)
	router.HandleFunc("/api/families/{familyId}/messages", chatHandler.PostMessage).Methods("POST")

	// Device endpoint
	router.HandleFunc("/api/devices", deviceHandler.RegisterDevice).Methods("POST")

	return router
}
