/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	mcppresenter "github.com/josephgoksu/officekit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can ask officekit
to break down and generate Office add-in code, browse reference samples, and
read past turns.

Tools:
  office_copilot   breakdown | generate
  office_samples   list | show | search
  office_history   list recent turns, or show one by id

The server speaks JSON-RPC on stdio and runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpErrorResponse reports a tool failure in the result so the client model can see it.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return mcpFormattedErrorResponse(mcppresenter.FormatError(err.Error()))
}

func mcpFormattedErrorResponse(formatted string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: formatted}},
		IsError: true,
	}, nil
}

// mcpToolResponse turns a handler result into a tool response.
func mcpToolResponse(result *mcppresenter.ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		return mcpErrorResponse(err)
	}
	if result.Error != "" {
		if result.Content != "" {
			return mcpFormattedErrorResponse(result.Content)
		}
		return mcpFormattedErrorResponse(mcppresenter.FormatError(result.Error))
	}
	return mcpMarkdownResponse(result.Content)
}

func runMCPServer(ctx context.Context) error {
	// stdout carries JSON-RPC; status output goes to stderr only.
	fmt.Fprintln(os.Stderr, "officekit MCP server starting...")

	deps, err := newCopilot(ctx, nil)
	if err != nil {
		return fmt.Errorf("initialize copilot: %w", err)
	}
	defer deps.Close()

	handlers := &mcppresenter.Handlers{Copilot: deps.orchestrator, Samples: deps.samples}
	if deps.history != nil {
		handlers.History = deps.history
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "officekit-mcp",
		Version: version,
	}, &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintln(os.Stderr, "✓ MCP connection established")
		},
	})
	registerMCPTools(server, handlers)

	return server.Run(ctx, mcpsdk.NewStdioTransport())
}

func registerMCPTools(server *mcpsdk.Server, h *mcppresenter.Handlers) {
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "office_copilot",
		Description: `Office add-in copilot. Use action parameter to select operation:
- breakdown: Identify the Office host, score complexity (1-100) and list coding sub-tasks
- generate: Run breakdown then generate TypeScript using the Office JavaScript API

REQUIRED FIELDS: action, prompt`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.CopilotToolParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(h.HandleCopilotTool(ctx, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "office_samples",
		Description: `Reference Office add-in samples. Use action parameter to select operation:
- list: All samples, optionally filtered by host
- show: One sample with code (requires id)
- search: Samples ranked for a request (requires query and host)`,
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.SamplesToolParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(h.HandleSamplesTool(ctx, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "office_history",
		Description: "Recorded copilot turns. Pass id to show one turn with its tasks and code; omit it to list recent turns (filters: host, status, limit).",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcppresenter.HistoryToolParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpToolResponse(h.HandleHistoryTool(ctx, params.Arguments))
	})
}
