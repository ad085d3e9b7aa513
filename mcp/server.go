// Package mcp serves purchase order generation to AI assistants over the
// Model Context Protocol.
//
// The server speaks newline-delimited JSON-RPC 2.0 on stdio and implements
// the tools and resources parts of MCP revision 2024-11-05.
//
// Register it with a desktop client by pointing the client at the binary:
//
//	{
//	  "mcpServers": {
//	    "pogen": {
//	      "command": "pogen-mcp",
//	      "args": ["-config", "pogen.yaml"]
//	    }
//	  }
//	}
package mcp

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// ProtocolVersion is the MCP revision the server implements.
const ProtocolVersion = "2024-11-05"

// Version is reported in the initialize handshake.
const Version = "1.0.0"

// Server dispatches requests read from its input to the registered tools
// and resources and writes one response line per request.
type Server struct {
	tools     map[string]Tool
	resources map[string]Resource
	input     io.Reader
	output    io.Writer
	log       *slog.Logger
	mu        sync.Mutex
}

// Tool is an operation listed by tools/list and invoked by tools/call.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Handler     ToolHandler    `json:"-"`
}

// ToolHandler runs a tool. A returned error becomes a result flagged
// isError, not a protocol error.
type ToolHandler func(args map[string]any) (ToolResult, error)

// ToolResult is the payload of a tools/call response.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one item of a ToolResult.
type ContentBlock struct {
	Type     string `json:"type"` // text or resource
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"` // base64
}

// Resource is a read-only document the client fetches by URI.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler produces the contents served for uri.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is one entry of a resources/read response.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // base64 encoded
}

type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  any              `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes.
const (
	codeParse          = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
)

// NewServer returns a server on stdin and stdout.
func NewServer(log *slog.Logger) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, log)
}

// NewServerWithIO returns a server on the given streams. A nil logger
// discards.
func NewServerWithIO(in io.Reader, out io.Writer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		input:     in,
		output:    out,
		log:       log,
	}
}

// AddTool registers a tool, replacing one with the same name.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers a resource, replacing one with the same URI.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// Run reads one JSON-RPC message per line and answers it until the input
// ends. Malformed lines get a parse error and do not stop the loop.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.input)
	// Rendered documents travel base64 encoded in a single line.
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonrpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("mcp: malformed message", slog.String("error", err.Error()))
			s.sendError(nil, codeParse, "Parse error", err.Error())
			continue
		}
		s.handleRequest(req)
	}
	return scanner.Err()
}

// handler answers one request method. A nil error means result is sent.
type handler func(s *Server, params json.RawMessage) (any, *jsonrpcError)

var methods = map[string]handler{
	"initialize":     (*Server).initialize,
	"ping":           func(*Server, json.RawMessage) (any, *jsonrpcError) { return map[string]any{}, nil },
	"tools/list":     (*Server).listTools,
	"tools/call":     (*Server).callTool,
	"resources/list": (*Server).listResources,
	"resources/read": (*Server).readResource,
}

func (s *Server) handleRequest(req jsonrpcRequest) {
	s.log.Debug("mcp: request", slog.String("method", req.Method))
	if req.Method == "initialized" || req.Method == "notifications/initialized" {
		return // notifications get no reply
	}
	h, ok := methods[req.Method]
	if !ok {
		s.sendError(req.ID, codeMethodNotFound, "Method not found", req.Method)
		return
	}
	result, rpcErr := h(s, req.Params)
	if rpcErr != nil {
		s.send(jsonrpcResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr})
		return
	}
	s.sendResult(req.ID, result)
}

func invalidParams(msg string, data any) *jsonrpcError {
	return &jsonrpcError{Code: codeInvalidParams, Message: msg, Data: data}
}

func (s *Server) initialize(json.RawMessage) (any, *jsonrpcError) {
	return map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools":     map[string]any{},
			"resources": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    "pogen-mcp",
			"version": Version,
		},
	}, nil
}

func (s *Server) listTools(json.RawMessage) (any, *jsonrpcError) {
	names := make([]string, 0, len(s.tools))
	for n := range s.tools {
		names = append(names, n)
	}
	sort.Strings(names)

	list := make([]map[string]any, len(names))
	for i, n := range names {
		t := s.tools[n]
		list[i] = map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		}
	}
	return map[string]any{"tools": list}, nil
}

func (s *Server) callTool(raw json.RawMessage) (any, *jsonrpcError) {
	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, invalidParams("Invalid params", err.Error())
	}
	t, ok := s.tools[call.Name]
	if !ok {
		return nil, invalidParams("Unknown tool", call.Name)
	}
	if call.Arguments == nil {
		call.Arguments = map[string]any{}
	}

	res, err := t.Handler(call.Arguments)
	if err != nil {
		s.log.Info("mcp: tool failed", slog.String("tool", call.Name), slog.String("error", err.Error()))
		return ToolResult{
			Content: []ContentBlock{{Type: "text", Text: "Error: " + err.Error()}},
			IsError: true,
		}, nil
	}
	return res, nil
}

func (s *Server) listResources(json.RawMessage) (any, *jsonrpcError) {
	uris := make([]string, 0, len(s.resources))
	for u := range s.resources {
		uris = append(uris, u)
	}
	sort.Strings(uris)

	list := make([]map[string]any, len(uris))
	for i, u := range uris {
		r := s.resources[u]
		entry := map[string]any{"uri": r.URI, "name": r.Name}
		if r.Description != "" {
			entry["description"] = r.Description
		}
		if r.MIMEType != "" {
			entry["mimeType"] = r.MIMEType
		}
		list[i] = entry
	}
	return map[string]any{"resources": list}, nil
}

func (s *Server) readResource(raw json.RawMessage) (any, *jsonrpcError) {
	var read struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(raw, &read); err != nil {
		return nil, invalidParams("Invalid params", err.Error())
	}
	r, ok := s.resources[read.URI]
	if !ok {
		return nil, invalidParams("Unknown resource", read.URI)
	}
	contents, err := r.Handler(read.URI)
	if err != nil {
		return nil, &jsonrpcError{Code: codeInternal, Message: "Resource error", Data: err.Error()}
	}
	return map[string]any{"contents": contents}, nil
}

func (s *Server) sendResult(id *json.RawMessage, result any) {
	s.send(jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id *json.RawMessage, code int, message string, data any) {
	s.send(jsonrpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpcError{Code: code, Message: message, Data: data},
	})
}

func (s *Server) send(resp jsonrpcResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("mcp: encoding response", slog.String("error", err.Error()))
		return
	}
	data = append(data, '\n')
	if _, err := s.output.Write(data); err != nil {
		s.log.Error("mcp: writing response", slog.String("error", err.Error()))
	}
}
