// Package router wires the REST endpoints onto their handlers and
// middleware.
package router

import (
	"net/http"

	"github.com/okorneva/cloudstore/internal/api/http/handler"
	"github.com/okorneva/cloudstore/internal/api/http/middleware"
	"github.com/okorneva/cloudstore/internal/logger"
)

// Router builds the HTTP handler tree for the file store API.
type Router struct {
	sessions handler.SessionService
	files    handler.FileService
	logger   *logger.Logger
}

// New creates a new Router instance over the session and file services.
func New(sessions handler.SessionService, files handler.FileService, logger *logger.Logger) *Router {
	return &Router{
		sessions: sessions,
		files:    files,
		logger:   logger,
	}
}

// Register builds the route table. Every route except login passes through
// token extraction; the whole tree is wrapped with request logging.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.sessions, r.logger)
	fileHandler := handler.NewFiles(r.files, r.logger)

	token := middleware.NewToken()
	logging := middleware.NewLogging(r.logger)

	mux := http.NewServeMux()
	mux.Handle("POST /login", http.HandlerFunc(authHandler.Login))
	mux.Handle("POST /logout", token.Handle(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("POST /file", token.Handle(http.HandlerFunc(fileHandler.Upload)))
	mux.Handle("GET /file", token.Handle(http.HandlerFunc(fileHandler.Fetch)))
	mux.Handle("PUT /file", token.Handle(http.HandlerFunc(fileHandler.Rename)))
	mux.Handle("DELETE /file", token.Handle(http.HandlerFunc(fileHandler.Delete)))
	mux.Handle("GET /list", token.Handle(http.HandlerFunc(fileHandler.List)))

	return logging.Handle(mux)
}
