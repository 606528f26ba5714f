// Package rpc exposes the resolution and mutation operations over a
// line-delimited JSON-RPC 2.0 loop on stdio. Store change notifications are
// forwarded on the same stream so a connected frontend can refresh views.
package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"pireport/internal/aggregate"
	"pireport/internal/mutate"
	"pireport/internal/resolve"
	"pireport/internal/store"
)

// JSONRPCRequest represents a standard JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server holds the state for the RPC server.
type Server struct {
	resolver *resolve.Resolver
	engine   *aggregate.Engine
	mutator  *mutate.Mutator
	store    store.Store

	in  io.Reader
	out io.Writer
	// Request replies and change notifications share one stream.
	outMutex sync.Mutex
}

// NewServer creates a new RPC server on stdin/stdout.
func NewServer(resolver *resolve.Resolver, engine *aggregate.Engine, mutator *mutate.Mutator, st store.Store) *Server {
	return &Server{
		resolver: resolver,
		engine:   engine,
		mutator:  mutator,
		store:    st,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Serve starts the JSON-RPC loop. It returns when the input stream closes.
func (s *Server) Serve() error {
	sub := s.store.Subscribe()
	defer s.store.Unsubscribe(sub)
	go s.forwardChanges(sub)

	reader := bufio.NewReader(s.in)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

// forwardChanges turns store change events into notifications. The loop ends
// when the subscription channel closes on store shutdown.
func (s *Server) forwardChanges(sub *store.Subscription) {
	for key := range sub.C {
		s.writeJSON(map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "notifications/store_changed",
			"params":  map[string]interface{}{"key": key.String()},
		})
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "pireport",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	s.writeJSON(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	})
}

func (s *Server) writeJSON(v interface{}) {
	out, _ := json.Marshal(v)

	s.outMutex.Lock()
	defer s.outMutex.Unlock()
	fmt.Fprintf(s.out, "%s\n", out)
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
