// Package mcp serves template filling to Model Context Protocol clients.
//
// The server speaks newline-delimited JSON-RPC 2.0 on stdin and stdout and
// offers the fill_template, check_config and template_info tools together
// with the pdffill://tokens and pdffill://styles resources.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/lvillar/pdffill/compose"
)

// Version is reported to clients in serverInfo.
const Version = "1.0.0"

// Server is an MCP server that handles JSON-RPC 2.0 messages over stdio.
type Server struct {
	tools     map[string]Tool
	resources map[string]Resource
	opts      []compose.Option // applied to every composer a tool creates
	input     io.Reader
	output    io.Writer
	mu        sync.Mutex
}

// Tool defines an MCP tool that can be called by the client.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Handler     ToolHandler    `json:"-"`
}

// ToolHandler is a function that executes a tool with the given arguments.
type ToolHandler func(args map[string]any) (ToolResult, error)

// ToolResult is the result returned by a tool execution.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is a text block in a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Resource defines an MCP resource. A read request matches a resource when
// its URI, without the query, equals the resource URI.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler reads a resource and returns its content.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is the content of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
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

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

func rpcError(code int, message string, data any) *jsonrpcError {
	return &jsonrpcError{Code: code, Message: message, Data: data}
}

// NewServer creates a server reading from stdin and writing to stdout.
// opts configure the composers used by the fill tools.
func NewServer(opts ...compose.Option) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, opts...)
}

// NewServerWithIO creates a server with custom I/O for testing.
func NewServerWithIO(in io.Reader, out io.Writer, opts ...compose.Option) *Server {
	return &Server{
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
		opts:      opts,
		input:     in,
		output:    out,
	}
}

// AddTool registers a tool with the server.
func (s *Server) AddTool(t Tool) {
	s.tools[t.Name] = t
}

// AddResource registers a resource with the server.
func (s *Server) AddResource(r Resource) {
	s.resources[r.URI] = r
}

// composer returns a composer with the server options followed by extra.
func (s *Server) composer(extra ...compose.Option) (*compose.Composer, error) {
	return compose.New(append(slices.Clone(s.opts), extra...)...)
}

// Run processes newline-delimited messages until EOF. Notifications get
// no reply; every other message gets exactly one response line.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.input)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req jsonrpcRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.reply(nil, nil, rpcError(codeParseError, "Parse error", err.Error()))
			continue
		}
		if notification(req.Method) {
			continue
		}
		result, rerr := s.dispatch(req)
		s.reply(req.ID, result, rerr)
	}
	return scanner.Err()
}

func notification(method string) bool {
	return method == "initialized" || strings.HasPrefix(method, "notifications/")
}

func (s *Server) dispatch(req jsonrpcRequest) (any, *jsonrpcError) {
	switch req.Method {
	case "initialize":
		return map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
			},
			"serverInfo": map[string]any{"name": "pdffill-mcp", "version": Version},
		}, nil
	case "ping":
		return map[string]any{}, nil
	case "tools/list":
		return map[string]any{"tools": sortedValues(s.tools)}, nil
	case "tools/call":
		return s.callTool(req.Params)
	case "resources/list":
		return map[string]any{"resources": sortedValues(s.resources)}, nil
	case "resources/read":
		return s.readResource(req.Params)
	}
	return nil, rpcError(codeMethodNotFound, "Method not found", req.Method)
}

// sortedValues lists the values of m ordered by key.
func sortedValues[V any](m map[string]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[k])
	}
	return out
}

// callTool runs a tool. A failing handler yields an error result rather
// than a protocol error so the client can show the message.
func (s *Server) callTool(raw json.RawMessage) (any, *jsonrpcError) {
	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, rpcError(codeInvalidParams, "Invalid params", err.Error())
	}
	tool, ok := s.tools[params.Name]
	if !ok {
		return nil, rpcError(codeInvalidParams, "Unknown tool", params.Name)
	}
	result, err := tool.Handler(params.Arguments)
	if err != nil {
		return ToolResult{
			Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
			IsError: true,
		}, nil
	}
	return result, nil
}

func (s *Server) readResource(raw json.RawMessage) (any, *jsonrpcError) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, rpcError(codeInvalidParams, "Invalid params", err.Error())
	}
	base, _, _ := strings.Cut(params.URI, "?")
	resource, ok := s.resources[base]
	if !ok {
		return nil, rpcError(codeInvalidParams, "Unknown resource", params.URI)
	}
	contents, err := resource.Handler(params.URI)
	if err != nil {
		return nil, rpcError(codeInternalError, "Resource error", err.Error())
	}
	return map[string]any{"contents": contents}, nil
}

func (s *Server) reply(id *json.RawMessage, result any, rerr *jsonrpcError) {
	resp := jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result, Error: rerr}
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: rpcError(codeInternalError, "Internal error", err.Error())})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output.Write(append(data, '\n'))
}
