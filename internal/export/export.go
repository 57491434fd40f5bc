// Package export writes the live feed and the alert list as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/ledger"
)

// TimeLayout is the ISO-8601 UTC layout used for every timestamp column.
const TimeLayout = "2006-01-02T15:04:05.000Z"

var transactionHeader = []string{
	"Transaction ID",
	"Hash",
	"From",
	"To",
	"Value (ETH)",
	"Gas Used",
	"Gas Price",
	"Block Number",
	"Timestamp",
	"Risk Score",
	"Classification",
	"Confidence",
	"Detected Patterns",
	"Contract Interaction",
	"Token Transfer",
}

var alertHeader = []string{
	"Alert ID",
	"Transaction ID",
	"Wallet Address",
	"Alert Type",
	"Severity",
	"Message",
	"Status",
	"Timestamp",
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(TimeLayout)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Transactions writes one row per entry, in the order given.
func Transactions(w io.Writer, entries []ledger.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("failed to write transaction header: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.ID,
			e.Hash,
			e.From,
			e.To,
			e.Value.StringFixed(6),
			strconv.FormatUint(e.GasUsed, 10),
			formatFloat(e.GasPrice),
			strconv.FormatUint(e.BlockNumber, 10),
			formatMillis(e.Timestamp),
			strconv.Itoa(e.Analysis.RiskScore),
			string(e.Analysis.Classification),
			formatFloat(e.Analysis.Confidence),
			strings.Join(e.Analysis.DetectedPatterns, "; "),
			strconv.FormatBool(e.ContractInteraction),
			strconv.FormatBool(e.TokenTransfer),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write transaction %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Alerts writes one row per alert, in the order given.
func Alerts(w io.Writer, list []*alerts.Alert) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(alertHeader); err != nil {
		return fmt.Errorf("failed to write alert header: %w", err)
	}

	for _, a := range list {
		record := []string{
			a.ID,
			a.TransactionID,
			a.WalletAddress,
			string(a.Type),
			string(a.Severity),
			a.Message,
			string(a.Status),
			formatMillis(a.Timestamp),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write alert %s: %w", a.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
