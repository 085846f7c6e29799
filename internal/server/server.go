package server

import "github.com/gin-gonic/gin"

// Server wraps the configured gin engine.
type Server struct {
	Engine *gin.Engine
}

func New(cfg Config) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
