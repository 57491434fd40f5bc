package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbd888/andromeda/internal/validation"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	client *Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *Client) *Handlers {
	return &Handlers{client: client}
}

// HandleGetStats combines the feed counters with alert counts.
func (h *Handlers) HandleGetStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	statsRaw, err := h.client.FeedStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get feed stats: %v", err)), nil
	}
	countsRaw, err := h.client.AlertCounts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get alert counts: %v", err)), nil
	}

	text, err := formatStats(statsRaw, countsRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse stats: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleAskAssistant forwards a message to the chat assistant.
func (h *Handlers) HandleAskAssistant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := strings.TrimSpace(req.GetString("message", ""))
	if message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}

	raw, err := h.client.Chat(ctx, message,
		req.GetString("language", ""),
		req.GetString("mode", ""),
		req.GetString("conversation_id", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Assistant request failed: %v", err)), nil
	}

	var reply struct {
		Reply          string   `json:"reply"`
		QuickReplies   []string `json:"quickReplies"`
		ConversationID string   `json:"conversationId"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse reply: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(reply.Reply)
	if len(reply.QuickReplies) > 0 {
		fmt.Fprintf(&sb, "\n\nSuggested follow-ups: %s", strings.Join(reply.QuickReplies, " | "))
	}
	fmt.Fprintf(&sb, "\nConversation ID: %s", reply.ConversationID)
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleListAlerts lists alerts with optional filters.
func (h *Handlers) HandleListAlerts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListAlerts(ctx,
		req.GetString("status", ""),
		req.GetString("severity", ""),
		req.GetString("wallet", ""),
		req.GetInt("limit", 20),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list alerts: %v", err)), nil
	}

	text, err := formatAlertList(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse alerts: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleUpdateAlert changes an alert's review status.
func (h *Handlers) HandleUpdateAlert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("alert_id", "")
	if id == "" {
		return mcp.NewToolResultError("alert_id is required"), nil
	}
	status := req.GetString("status", "")
	if status == "" {
		return mcp.NewToolResultError("status is required"), nil
	}

	raw, err := h.client.UpdateAlert(ctx, id, status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Update failed: %v", err)), nil
	}

	var resp struct {
		Alert map[string]any `json:"alert"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Alert == nil {
		return mcp.NewToolResultError("Failed to parse updated alert"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Alert %s is now %s.\n%s",
		getString(resp.Alert, "id"), getString(resp.Alert, "status"), formatAlert(resp.Alert))), nil
}

// HandleWalletHistory shows a wallet's profile and recent transactions.
func (h *Handlers) HandleWalletHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errResult := requireAddress(req)
	if errResult != nil {
		return errResult, nil
	}

	profileRaw, err := h.client.WalletProfile(ctx, address)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get wallet profile: %v", err)), nil
	}
	historyRaw, err := h.client.WalletHistory(ctx, address, req.GetInt("limit", 10))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get wallet history: %v", err)), nil
	}

	text, err := formatWallet(profileRaw, historyRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse wallet: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// HandleBlockWallet blocks a wallet.
func (h *Handlers) HandleBlockWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errResult := requireAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	if _, err := h.client.BlockWallet(ctx, address); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Block failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Wallet %s is blocked.\nIt now shows as blocked in wallet views and the live feed will surface its activity more often.", address)), nil
}

// HandleUnblockWallet unblocks a wallet.
func (h *Handlers) HandleUnblockWallet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errResult := requireAddress(req)
	if errResult != nil {
		return errResult, nil
	}
	if _, err := h.client.UnblockWallet(ctx, address); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Unblock failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Wallet %s is no longer blocked.", address)), nil
}

// HandleExplainTransaction returns the risk breakdown for a transaction.
func (h *Handlers) HandleExplainTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("transaction_id", "")
	if id == "" {
		return mcp.NewToolResultError("transaction_id is required"), nil
	}

	raw, err := h.client.Breakdown(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to explain transaction: %v", err)), nil
	}

	text, err := formatBreakdown(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse breakdown: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func requireAddress(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	address := strings.TrimSpace(req.GetString("address", ""))
	if address == "" {
		return "", mcp.NewToolResultError("address is required")
	}
	if !validation.IsValidEthAddress(address) {
		return "", mcp.NewToolResultError("address must be 0x followed by 40 hex characters")
	}
	return address, nil
}

// --- Formatting helpers ---

func formatStats(statsRaw, countsRaw json.RawMessage) (string, error) {
	var stats struct {
		Stats map[string]any `json:"stats"`
	}
	if err := json.Unmarshal(statsRaw, &stats); err != nil {
		return "", err
	}
	var counts struct {
		Counts map[string]float64 `json:"counts"`
	}
	if err := json.Unmarshal(countsRaw, &counts); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Live feed:\n")
	fmt.Fprintf(&sb, "  Transactions: %s\n", getString(stats.Stats, "totalTransactions"))
	fmt.Fprintf(&sb, "  Malicious blocked: %s\n", getString(stats.Stats, "maliciousBlocked"))
	fmt.Fprintf(&sb, "  Average risk score: %s\n", getString(stats.Stats, "averageRiskScore"))
	fmt.Fprintf(&sb, "  Throughput: %s tx/s\n", getString(stats.Stats, "throughput"))
	sb.WriteString("Alerts:\n")
	for _, st := range []string{"active", "investigating", "resolved", "false_positive"} {
		fmt.Fprintf(&sb, "  %s: %.0f\n", st, counts.Counts[st])
	}
	return sb.String(), nil
}

func formatAlertList(raw json.RawMessage) (string, error) {
	var resp struct {
		Alerts []map[string]any `json:"alerts"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("unexpected alerts response format")
	}
	if len(resp.Alerts) == 0 {
		return "No alerts match.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d alert(s):\n\n", len(resp.Alerts))
	for i, a := range resp.Alerts {
		fmt.Fprintf(&sb, "%d. [%s] %s (%s)\n", i+1,
			strings.ToUpper(getString(a, "severity")), getString(a, "alertType"), getString(a, "status"))
		sb.WriteString(formatAlert(a))
		if i < len(resp.Alerts)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

func formatAlert(a map[string]any) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "   ID: %s\n", getString(a, "id"))
	fmt.Fprintf(&sb, "   Wallet: %s\n", getString(a, "walletAddress"))
	fmt.Fprintf(&sb, "   Transaction: %s\n", getString(a, "transactionId"))
	if msg := getString(a, "message"); msg != "" {
		fmt.Fprintf(&sb, "   %s\n", msg)
	}
	return sb.String()
}

func formatWallet(profileRaw, historyRaw json.RawMessage) (string, error) {
	var profile struct {
		Wallet map[string]any `json:"wallet"`
	}
	if err := json.Unmarshal(profileRaw, &profile); err != nil || profile.Wallet == nil {
		return "", fmt.Errorf("unexpected wallet response format")
	}
	var history struct {
		Entries []map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(historyRaw, &history); err != nil {
		return "", fmt.Errorf("unexpected history response format")
	}

	w := profile.Wallet
	var sb strings.Builder
	fmt.Fprintf(&sb, "Wallet %s\n", getString(w, "address"))
	fmt.Fprintf(&sb, "  Risk level: %s\n", getString(w, "displayRiskLevel"))
	if blocked, _ := w["blocked"].(bool); blocked {
		sb.WriteString("  Status: BLOCKED\n")
	}
	if v, ok := getFloat(w, "averageRiskScore"); ok {
		fmt.Fprintf(&sb, "  Average risk score: %.1f\n", v)
	}
	fmt.Fprintf(&sb, "  Transactions: %s (flagged: %s)\n",
		getString(w, "transactionCount"), getString(w, "flaggedTransactions"))
	if tags, ok := w["tags"].([]any); ok && len(tags) > 0 {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				names = append(names, s)
			}
		}
		fmt.Fprintf(&sb, "  Tags: %s\n", strings.Join(names, ", "))
	}

	if len(history.Entries) == 0 {
		sb.WriteString("\nNo recorded transactions.")
		return sb.String(), nil
	}
	sb.WriteString("\nRecent transactions:\n")
	for _, e := range history.Entries {
		analysis, _ := e["analysis"].(map[string]any)
		fmt.Fprintf(&sb, "  %s → %s  value %s ETH  risk %s (%s)\n",
			getString(e, "id"), getString(e, "to"), getString(e, "value"),
			getString(analysis, "riskScore"), getString(analysis, "classification"))
	}
	return sb.String(), nil
}

func formatBreakdown(raw json.RawMessage) (string, error) {
	var b struct {
		TransactionID   string `json:"transactionId"`
		RiskScore       int    `json:"riskScore"`
		ConfidenceLevel string `json:"confidenceLevel"`
		Factors         []struct {
			Factor      string `json:"factor"`
			Impact      int    `json:"impact"`
			Description string `json:"description"`
		} `json:"factors"`
		Models struct {
			Supervised float64 `json:"supervised"`
			Anomaly    float64 `json:"anomaly"`
			LSTM       float64 `json:"lstm"`
		} `json:"modelPredictions"`
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transaction %s scored %d (%s confidence)\n", b.TransactionID, b.RiskScore, b.ConfidenceLevel)
	if len(b.Factors) == 0 {
		sb.WriteString("No risk factors contributed.\n")
	}
	for _, f := range b.Factors {
		fmt.Fprintf(&sb, "  +%d %s: %s\n", f.Impact, f.Factor, f.Description)
	}
	fmt.Fprintf(&sb, "Models: supervised %.2f | anomaly %.2f | lstm %.2f\n",
		b.Models.Supervised, b.Models.Anomaly, b.Models.LSTM)
	return sb.String(), nil
}

// getString extracts a string value from a map, trying multiple key names.
func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%g", f)
			}
		}
	}
	return ""
}

// getFloat extracts a float64 value from a map, trying multiple key names.
func getFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if f, ok := v.(float64); ok {
				return f, true
			}
		}
	}
	return 0, false
}
