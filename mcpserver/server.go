// Package mcpserver exposes the converter over the Model Context Protocol
// so agent clients can convert and run code as tools. Built on
// mark3labs/mcp-go with a stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"codeport/model"
	"codeport/service"
)

// MCPServer wraps the converter service in an MCP tool surface.
type MCPServer struct {
	svc       *service.ConverterService
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// New builds the server and registers both tools.
func New(svc *service.ConverterService, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &MCPServer{
		svc:    svc,
		logger: logger,
	}
	s.mcpServer = server.NewMCPServer("codeport", "Code conversion and sandboxed execution server")
	s.registerConvertCodeTool()
	s.registerExecuteSandboxedCodeTool()
	return s
}

func (s *MCPServer) registerConvertCodeTool() {
	tool := mcp.Tool{
		Name:        "convert_code",
		Description: "Convert source code to a target programming language",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to convert",
				},
				"target_language": map[string]any{
					"type":        "string",
					"description": "Target language",
					"enum":        s.svc.SupportedLanguages(),
				},
				"add_comments": map[string]any{
					"type":        "boolean",
					"description": "Add explanatory comments to the converted code (optional)",
				},
			},
			Required: []string{"code", "target_language"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleConvertCode)
}

func (s *MCPServer) registerExecuteSandboxedCodeTool() {
	tool := mcp.Tool{
		Name:        "execute_sandboxed_code",
		Description: "Execute code in an isolated Docker container",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to execute",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Execution language",
					"enum":        s.svc.SupportedLanguages(),
				},
			},
			Required: []string{"code", "language"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleExecuteSandboxedCode)
}

func (s *MCPServer) handleConvertCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}
	target, err := request.RequireString("target_language")
	if err != nil {
		return nil, fmt.Errorf("target_language parameter is required: %w", err)
	}
	addComments := request.GetBool("add_comments", false)

	s.logger.Info("Conversion requested via MCP", zap.String("target", target))

	res := s.svc.Convert(ctx, model.ConvertRequest{
		Code:           code,
		TargetLanguage: target,
		AddComments:    addComments,
	})
	if !res.Success {
		return errorResult(res.Error), nil
	}
	return textResult(res.Code), nil
}

func (s *MCPServer) handleExecuteSandboxedCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}
	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	s.logger.Info("Execution requested via MCP", zap.String("language", strings.ToLower(language)))

	res := s.svc.Execute(ctx, model.ExecuteRequest{
		Code:     code,
		Language: language,
	})

	payload, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	if !res.Success {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(payload)}},
			IsError: true,
		}, nil
	}
	return textResult(string(payload)), nil
}

// ServeStdio runs the server over stdio until the client disconnects.
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("Starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
		IsError: true,
	}
}
