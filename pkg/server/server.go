package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/prefixrank/internal/logger"
	"github.com/bastiangx/prefixrank/internal/utils"
	"github.com/bastiangx/prefixrank/pkg/config"
	"github.com/bastiangx/prefixrank/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	codeBadRequest = 400
	codeInternal   = 500
)

// Server handles the IPC for completions
type Server struct {
	completer  suggest.Completer
	config     *config.Config
	configPath string
	decoder    *msgpack.Decoder
	writer     *bufio.Writer
	encoder    *msgpack.Encoder
	logger     *log.Logger
	requests   int
}

// NewServer creates a completion server using stdin/stdout for IPC.
func NewServer(completer suggest.Completer, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server over r and w.
func NewServerWithIO(completer suggest.Completer, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	writer := bufio.NewWriter(w)
	encoder := msgpack.NewEncoder(writer)
	encoder.UseCompactInts(true)
	return &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		writer:     writer,
		encoder:    encoder,
		logger:     logger.New("server"),
	}
}

// Start writes the ready frame and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server.")
	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requests)
				return nil
			}
			// The stream cannot be resynchronized past a broken frame.
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}
		s.requests++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Warnf("Malformed request: %v", err)
			if err := s.sendError("", "malformed request", codeBadRequest); err != nil {
				return err
			}
			continue
		}
		if err := s.handle(req); err != nil {
			return err
		}
	}
}

// handle dispatches one request. Only write failures are returned; a
// handler that panics is answered with a 500 and the server keeps going.
func (s *Server) handle(req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Request %q (%s) failed: %v", req.ID, req.Action, r)
			err = s.sendError(req.ID, fmt.Sprintf("internal error: %v", r), codeInternal)
		}
	}()

	switch req.Action {
	case "", ActionComplete:
		return s.handleComplete(req)
	case ActionInsert:
		return s.handleInsert(req)
	case ActionRemove:
		return s.handleRemove(req)
	case ActionStats:
		return s.handleStats(req)
	case ActionConfig:
		return s.handleConfig(req)
	}
	return s.sendError(req.ID, fmt.Sprintf("unknown action %q", req.Action), codeBadRequest)
}

func (s *Server) handleComplete(req Request) error {
	limits := s.config.Server
	n := utf8.RuneCountInString(req.Prefix)
	if n < limits.MinPrefix {
		return s.sendError(req.ID, fmt.Sprintf("prefix must be at least %d characters", limits.MinPrefix), codeBadRequest)
	}
	if n > limits.MaxPrefix {
		return s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d characters", limits.MaxPrefix), codeBadRequest)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = limits.DefaultLimit
	}
	limit = min(limit, limits.MaxLimit)

	start := time.Now()
	suggestions, err := s.completer.Complete(req.Prefix, limit)
	elapsed := time.Since(start)
	if err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]CompletionSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = CompletionSuggestion{Word: sg.Value, Weight: sg.Weight, Rank: ranks[i]}
	}
	s.logger.Debug("complete", "prefix", req.Prefix, "limit", limit, "count", len(out), "took", elapsed)

	return s.send(CompletionResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleInsert(req Request) error {
	weight := req.Weight
	if weight == 0 {
		weight = s.config.Engine.DefaultWeight
	}
	if err := s.completer.Add(req.Entry, weight); err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}
	return s.send(MutationResponse{ID: req.ID, Status: "ok", Count: 1})
}

func (s *Server) handleRemove(req Request) error {
	before := s.completer.Len()
	if err := s.completer.Remove(req.Prefix); err != nil {
		return s.sendError(req.ID, err.Error(), codeBadRequest)
	}
	return s.send(MutationResponse{ID: req.ID, Status: "ok", Count: before - s.completer.Len()})
}

func (s *Server) handleStats(req Request) error {
	stats := s.completer.Stats()
	stats["requests"] = s.requests
	return s.send(StatsResponse{ID: req.ID, Stats: stats})
}

func (s *Server) handleConfig(req Request) error {
	resp := ConfigResponse{ID: req.ID, Status: "ok"}
	if err := s.config.Update(s.configPath, req.MaxLimit, req.MinPrefix, req.MaxPrefix); err != nil {
		s.logger.Errorf("Saving config to %s: %v", s.configPath, err)
		resp.Status = "error"
		resp.Error = err.Error()
	}
	resp.MaxLimit = s.config.Server.MaxLimit
	resp.MinPrefix = s.config.Server.MinPrefix
	resp.MaxPrefix = s.config.Server.MaxPrefix
	return s.send(resp)
}

// send encodes v as one frame and flushes it.
func (s *Server) send(v any) error {
	if err := s.encoder.Encode(v); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return s.writer.Flush()
}

func (s *Server) sendError(id, message string, code int) error {
	s.logger.Debug("request failed", "id", id, "error", message, "code", code)
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
