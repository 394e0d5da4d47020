package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Server handles the IPC for ranked completions
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	configPath   string
	codec        codec
	logger       *log.Logger
	requestCount int
	mu           sync.RWMutex
}

// decoded is one read from the request stream.
type decoded struct {
	req Request
	err error
}

// NewServer creates a completion server on stdin/stdout
func NewServer(completer suggest.ICompleter, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server on the given streams. The
// codec is picked from cfg.Server.Codec once, at creation.
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
		codec:      newCodec(cfg.Server.Codec, r, w),
		logger:     logger.New("server"),
	}
}

// Start serves requests until the input stream ends
func (s *Server) Start() error {
	return s.Serve(context.Background())
}

// Serve reads requests until the stream ends or ctx is done. A clean end of
// input returns nil; a stream that can no longer be decoded returns its error.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("Starting server", "codec", s.currentConfig().Server.Codec)
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return fmt.Errorf("writing ready message: %w", err)
	}

	requests := make(chan decoded)
	go s.readLoop(ctx, requests)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Server stopping", "requests", s.requestCount)
			return nil
		case d := <-requests:
			if d.err != nil {
				var malformed *malformedError
				switch {
				case errors.Is(d.err, io.EOF):
					s.logger.Debug("Input closed", "requests", s.requestCount)
					return nil
				case errors.As(d.err, &malformed):
					s.logger.Warn("Malformed request", "err", d.err)
					s.sendError("", "invalid request", 400)
					continue
				default:
					s.logger.Errorf("Reading request: %v", d.err)
					return d.err
				}
			}
			s.handleRequest(d.req)
		}
	}
}

// readLoop decodes requests until a fatal error or ctx is done.
func (s *Server) readLoop(ctx context.Context, out chan<- decoded) {
	for {
		var req Request
		err := s.codec.Decode(&req)
		select {
		case out <- decoded{req: req, err: err}:
		case <-ctx.Done():
			return
		}

		var malformed *malformedError
		if err != nil && !errors.As(err, &malformed) {
			return
		}
	}
}

// UpdateConfig swaps the config used for request validation
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// ReloadConfig re-reads the config file the server was started with
func (s *Server) ReloadConfig() error {
	if s.configPath == "" {
		return nil
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	s.UpdateConfig(cfg)
	s.logger.Debug("Config reloaded", "path", s.configPath)
	return nil
}

func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// handleRequest dispatches a request on its action
func (s *Server) handleRequest(req Request) {
	s.requestCount++

	switch req.Action {
	case ActionComplete:
		s.handleComplete(req)
	case ActionInfo:
		s.handleInfo(req)
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 404)
	}
}

// handleComplete validates the prefix and limit against the server config,
// looks the prefix up and sends ranked suggestions. Prefix bounds are in
// bytes, matching how terms are compared.
func (s *Server) handleComplete(req Request) {
	cfg := s.currentConfig().Server
	prefix := req.Prefix

	switch {
	case prefix == "":
		s.sendError(req.ID, "missing prefix", 400)
		return
	case len(prefix) < cfg.MinPrefix:
		s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d bytes", cfg.MinPrefix), 400)
		return
	case len(prefix) > cfg.MaxPrefix:
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d bytes", cfg.MaxPrefix), 400)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}
	limit = min(limit, cfg.MaxLimit)

	response := CompletionResponse{ID: req.ID, Suggestions: []CompletionSuggestion{}}
	if cfg.EnableFilter && !utils.IsValidInput(prefix) {
		s.logger.Debug("Prefix filtered", "prefix", prefix)
		s.send(response)
		return
	}

	start := time.Now()
	matches := s.completer.Complete(prefix, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(matches))
	for i, m := range matches {
		response.Suggestions = append(response.Suggestions, CompletionSuggestion{
			Word:   m.Text,
			Rank:   ranks[i],
			Weight: m.Weight,
		})
	}
	response.Count = len(response.Suggestions)
	response.TimeTaken = elapsed.Microseconds()

	s.logger.Debugf("Prefix '%s': %d suggestions in %v", prefix, response.Count, elapsed)
	s.send(response)
}

func (s *Server) handleInfo(req Request) {
	stats := s.completer.Stats()
	s.send(InfoResponse{
		ID:              req.ID,
		Status:          "ok",
		Terms:           stats["totalTerms"],
		MaxWeight:       s.completer.MaxWeight(),
		HotCacheEntries: stats["hotCacheEntries"],
		HotCacheHits:    stats["hotCacheHits"],
		Requests:        s.requestCount,
		MaxLimit:        s.currentConfig().Server.MaxLimit,
	})
}

// send encodes a response onto the output stream
func (s *Server) send(response any) error {
	if err := s.codec.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.logger.Debug("Request failed", "id", id, "code", code, "err", message)
	s.send(CompletionError{ID: id, Error: message, Code: code})
}
