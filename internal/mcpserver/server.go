package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with every dashboard tool
// registered.
func NewMCPServer(cfg Config, version string) *server.MCPServer {
	s := server.NewMCPServer("andromeda", version)
	h := NewHandlers(NewClient(cfg))

	s.AddTool(ToolGetStats, h.HandleGetStats)
	s.AddTool(ToolAskAssistant, h.HandleAskAssistant)
	s.AddTool(ToolListAlerts, h.HandleListAlerts)
	s.AddTool(ToolUpdateAlert, h.HandleUpdateAlert)
	s.AddTool(ToolWalletHistory, h.HandleWalletHistory)
	s.AddTool(ToolBlockWallet, h.HandleBlockWallet)
	s.AddTool(ToolUnblockWallet, h.HandleUnblockWallet)
	s.AddTool(ToolExplainTransaction, h.HandleExplainTransaction)

	return s
}
