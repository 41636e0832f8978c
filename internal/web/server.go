// Package web exposes the game over HTTP/JSON and a websocket command channel.
package web

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/auth"
	"github.com/cory-johannsen/wisperwind/internal/gameserver"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 16

// Pages a successful login redirects to.
const (
	gamePage              = "/game"
	characterCreationPage = "/character-creation"
)

// pages maps extensionless page routes to files under the static directory.
var pages = map[string]string{
	gamePage:              "game.html",
	characterCreationPage: "character-creation.html",
}

// Config tunes a Server.
type Config struct {
	// StaticDir is served at / when non-empty.
	StaticDir string
}

// Server routes HTTP requests to the account and game services.
type Server struct {
	auth      *auth.Service
	game      *gameserver.Service
	resolver  auth.AccountResolver
	staticDir string
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewServer wires a Server.
//
// Precondition: authSvc, game, resolver, and logger must be non-nil.
func NewServer(authSvc *auth.Service, game *gameserver.Service, resolver auth.AccountResolver, cfg Config, logger *zap.Logger) *Server {
	return &Server{
		auth:      authSvc,
		game:      game,
		resolver:  resolver,
		staticDir: cfg.StaticDir,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// Routes returns the handler for every endpoint.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("POST /api/character", s.authed(s.handleCreateCharacter))
	mux.HandleFunc("GET /api/player/data", s.authed(s.handlePlayerData))
	mux.HandleFunc("POST /api/player/move", s.authed(s.handleMove))
	mux.HandleFunc("POST /api/player/equip", s.authed(s.handleEquip))
	mux.HandleFunc("POST /api/player/unequip", s.authed(s.handleUnequip))
	mux.HandleFunc("POST /api/combat/action", s.authed(s.handleCombatAction))
	mux.HandleFunc("POST /api/craft", s.authed(s.handleCraft))

	mux.HandleFunc("GET /api/recipes", s.handleRecipes)
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /ws", s.handleWebsocket)

	if s.staticDir != "" {
		for route, file := range pages {
			mux.HandleFunc("GET "+route, s.servePage(file))
		}
		mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

func (s *Server) servePage(file string) http.HandlerFunc {
	path := filepath.Join(s.staticDir, file)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// accountHandler is a handler that runs on behalf of a resolved account.
type accountHandler func(w http.ResponseWriter, r *http.Request, accountID string)

// authed resolves the caller's account before running next.
func (s *Server) authed(next accountHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, err := s.resolver.ResolveAccount(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r, accountID)
	}
}
