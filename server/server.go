package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/posterplay/auth-service/internal/config"
	"github.com/posterplay/auth-service/ratelimit"
	"github.com/posterplay/auth-service/sessions"
	"github.com/posterplay/auth-service/token/spotify"
)

// SpotifyAuthClient is the subset of the Spotify codec the handlers use.
type SpotifyAuthClient interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*spotify.TokenBundle, error)
	Refresh(ctx context.Context, refreshToken string) (*spotify.TokenBundle, error)
	CurrentUser(ctx context.Context, accessToken string) (*spotify.UserProfile, error)
}

// DeveloperTokenCreator issues Apple Music developer tokens.
type DeveloperTokenCreator interface {
	GenerateDeveloperToken() (string, error)
}

type Server struct {
	env         string // Environment (e.g., "DEV", "production")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	spotify     SpotifyAuthClient
	appleTokens DeveloperTokenCreator
	cookies     *sessions.Store
	limiter     *ratelimit.Limiter
}

func New(cfg config.Config, spotifyClient SpotifyAuthClient, appleTokens DeveloperTokenCreator) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		spotify:     spotifyClient,
		appleTokens: appleTokens,
		cookies:     sessions.NewStore(cfg),
		limiter:     ratelimit.New(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + resetColor
	} else {
		displayMethod = gray + paddedMethod + resetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
