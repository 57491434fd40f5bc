package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Descriptions are what the LLM reads to decide which tool
// to use.

var ToolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription(
		"Get the live security feed counters: transactions in the feed, malicious transactions blocked, "+
			"average risk score, throughput, and alert counts by review status."),
)

var ToolAskAssistant = mcp.NewTool("ask_assistant",
	mcp.WithDescription(
		"Ask the security assistant a question about threats, the live feed, or blockchain security basics. "+
			"Answers use the current feed statistics."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The question or instruction, in any supported language")),
	mcp.WithString("language",
		mcp.Description("Reply language code (e.g. 'en', 'es', 'fr'). Detected from the message when omitted.")),
	mcp.WithString("mode",
		mcp.Description("Assistant persona"),
		mcp.Enum("assistant", "threat", "education")),
	mcp.WithString("conversation_id",
		mcp.Description("Continue an earlier conversation")),
)

var ToolListAlerts = mcp.NewTool("list_alerts",
	mcp.WithDescription(
		"List security alerts raised by the risk pipeline, newest first. "+
			"Each alert names the transaction, wallet, severity and review status."),
	mcp.WithString("status",
		mcp.Description("Filter by review status"),
		mcp.Enum("active", "investigating", "resolved", "false_positive")),
	mcp.WithString("severity",
		mcp.Description("Filter by severity"),
		mcp.Enum("low", "medium", "high", "critical")),
	mcp.WithString("wallet",
		mcp.Description("Only alerts for this wallet address")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of alerts to return (default 20)")),
)

var ToolUpdateAlert = mcp.NewTool("update_alert",
	mcp.WithDescription(
		"Move an alert through review: active → investigating → resolved or false_positive. "+
			"Resolved and false_positive are final."),
	mcp.WithString("alert_id",
		mcp.Required(),
		mcp.Description("The alert ID from list_alerts")),
	mcp.WithString("status",
		mcp.Required(),
		mcp.Description("The new review status"),
		mcp.Enum("investigating", "resolved", "false_positive")),
)

var ToolWalletHistory = mcp.NewTool("wallet_history",
	mcp.WithDescription(
		"Show a wallet's risk profile and its most recent scored transactions, "+
			"including whether it is blocked."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address (0x followed by 40 hex characters)")),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of transactions to list (default 10)")),
)

var ToolBlockWallet = mcp.NewTool("block_wallet",
	mcp.WithDescription(
		"Block a wallet. Blocked wallets are flagged by every future risk score."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address to block")),
)

var ToolUnblockWallet = mcp.NewTool("unblock_wallet",
	mcp.WithDescription("Remove a wallet from the block list."),
	mcp.WithString("address",
		mcp.Required(),
		mcp.Description("Wallet address to unblock")),
)

var ToolExplainTransaction = mcp.NewTool("explain_transaction",
	mcp.WithDescription(
		"Explain why a transaction in the live feed got its risk score: "+
			"contributing factors, their impact, and each model's prediction."),
	mcp.WithString("transaction_id",
		mcp.Required(),
		mcp.Description("Transaction ID or hash from the live feed")),
)
