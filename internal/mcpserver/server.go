// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pm-toolserver/internal/quality"
	"github.com/sells-group/pm-toolserver/internal/report"
	"github.com/sells-group/pm-toolserver/internal/tools"
)

// Name is the server name announced during MCP initialization.
const Name = "pm-toolserver"

const instructions = `Quality and confidence tools for product-management analyses.
Validate a request with validate_competitive_input or validate_market_sizing_input before
running an analysis, then pass the analysis result to assess_competitive_analysis or
assess_market_sizing. Use check_data_sufficiency to decide whether thin or stale data still
supports an analysis. Degraded results are warnings, not failures.`

// New creates an MCP server with every registry tool registered.
func New(reg *tools.Registry, version string) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	for _, t := range reg.Tools() {
		s.AddTool(t.Definition(), Handler(reg, t.Name))
	}
	return s
}

// Handler adapts a registry tool to an MCP tool handler. Validation errors
// become tool results flagged as errors so the client can correct its call.
func Handler(reg *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := json.Marshal(req.GetArguments())
		if err != nil {
			return nil, eris.Wrapf(err, "mcp: encode arguments for %s", name)
		}

		resp, err := reg.Call(ctx, name, raw)
		if err != nil {
			if ve, ok := quality.AsValidationError(err); ok {
				return mcp.NewToolResultError(ve.UserMessage()), nil
			}
			var unknown *tools.UnknownToolError
			if errors.As(err, &unknown) {
				return mcp.NewToolResultError(unknown.Error()), nil
			}
			return nil, eris.Wrapf(err, "mcp: call %s", name)
		}

		text, err := Text(resp)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(text), nil
	}
}

// Text renders a response for an MCP client: the full envelope as JSON for
// the json format, otherwise the Markdown content with a metadata footer.
func Text(resp *tools.Response) (string, error) {
	if resp.Format == report.FormatJSON {
		return report.JSON(resp)
	}
	text := resp.Content
	if resp.SteeringPath != "" {
		text += fmt.Sprintf("\nSteering file: `%s`\n", resp.SteeringPath)
	}
	q := resp.Metadata.Quota
	text += fmt.Sprintf("\n---\n_request %s | %d ms | ~%d tokens | $%.4f_\n",
		resp.RequestID, resp.Metadata.DurationMS, q.InputTokens+q.OutputTokens, q.EstimatedCostUSD)
	return text, nil
}

// ServeStdio serves s over stdin and stdout until ctx is done or stdin closes.
func ServeStdio(ctx context.Context, s *server.MCPServer) error {
	zap.L().Info("mcp: serving on stdio", zap.String("server", Name))
	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return eris.Wrap(err, "mcp: stdio server")
	}
	return nil
}
