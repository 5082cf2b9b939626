package main

import (
	"fmt"
	"io"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/fatih/color"

	"github.com/wasmdapps/sdk-go/types"
	"github.com/wasmdapps/sdk-go/workflow"
)

// errorBanner renders err as the single dismissible banner line.
func errorBanner(err error) string {
	if err == nil {
		return ""
	}
	label := "Error"
	switch {
	case types.IsTransport(err):
		label = "Network error"
	case types.IsEventNotFound(err):
		label = "No pong"
	case types.IsChainRejection(err):
		label = "Rejected"
	}
	return color.New(color.FgWhite, color.BgRed).Sprintf(" %s ", label) + " " + color.RedString(types.UserMessage(err))
}

func successLine(msg string) string {
	return color.GreenString("✔ ") + msg
}

func formatBalance(c *sdk.Coin) string {
	if c == nil {
		return color.YellowString("unknown")
	}
	return c.String()
}

// statusLines lays out the account and contract panel.
func statusLines(s workflow.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("Address:   %s", orDash(s.Address)),
		fmt.Sprintf("Balance:   %s", formatBalance(s.Balance)),
		fmt.Sprintf("Contract:  %s", orDash(s.Contract)),
	}
	if s.Contract != "" {
		count := "-"
		if s.CountKnown {
			count = fmt.Sprintf("%d", s.Count)
		}
		lines = append(lines, fmt.Sprintf("Pings:     %s", count))
	}
	switch s.State {
	case workflow.Executing:
		lines = append(lines, color.CyanString("Executing ping..."))
	case workflow.Settled:
		if s.Outcome == workflow.OutcomeSuccess {
			lines = append(lines, successLine("Last ping: "+s.LastTxHash))
		} else {
			lines = append(lines, color.RedString("✘ Last ping failed"))
		}
	}
	return lines
}

func printStatus(w io.Writer, s workflow.Snapshot) {
	for _, l := range statusLines(s) {
		fmt.Fprintln(w, l)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
