package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/ChartPilotGo/internal/agent"
	"github.com/dyike/ChartPilotGo/internal/models"
	"github.com/dyike/ChartPilotGo/internal/ticker"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	accountStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	positionsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F59E0B")).
			Padding(1, 2).
			Width(80)

	trailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2).
			Width(80)

	profitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// Dashboard renders the account, positions and agent trail panels.
type Dashboard struct {
	scheduler *agent.Scheduler
	symbol    string

	mu       sync.Mutex
	account  models.AccountState
	lastTick ticker.Tick
}

// NewDashboard creates a dashboard for one agent run.
func NewDashboard(symbol string, scheduler *agent.Scheduler) *Dashboard {
	return &Dashboard{scheduler: scheduler, symbol: symbol}
}

// OnAccountUpdate is a ledger subscription listener.
func (d *Dashboard) OnAccountUpdate(state models.AccountState) {
	d.mu.Lock()
	d.account = state
	d.mu.Unlock()
}

// OnTick records the latest display quote.
func (d *Dashboard) OnTick(t ticker.Tick) {
	d.mu.Lock()
	d.lastTick = t
	d.mu.Unlock()
}

// Render repaints the full dashboard.
func (d *Dashboard) Render() {
	d.mu.Lock()
	account := d.account
	tick := d.lastTick
	d.mu.Unlock()

	if os.Getenv("CHARTPILOT_NO_CLEAR") == "" {
		fmt.Print("\033[2J\033[H")
	}

	header := fmt.Sprintf("ChartPilot | %s @ %.5f | Agent: %s", d.symbol, tick.Price, d.scheduler.Status())
	fmt.Println(titleStyle.Render(header))

	fmt.Println(accountStyle.Render(d.renderAccount(account)))
	fmt.Println(positionsStyle.Render(d.renderPositions(account)))
	fmt.Println(trailStyle.Render(d.renderTrail()))
}

func (d *Dashboard) renderAccount(account models.AccountState) string {
	var sb strings.Builder
	sb.WriteString("Account\n\n")
	sb.WriteString(fmt.Sprintf("Balance:      %12.2f\n", account.Balance))

	equityLine := fmt.Sprintf("Equity:       %12.2f", account.Equity)
	if account.Equity >= account.Balance {
		sb.WriteString(profitStyle.Render(equityLine))
	} else {
		sb.WriteString(lossStyle.Render(equityLine))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Margin Used:  %12.2f\n", account.MarginUsed))
	sb.WriteString(fmt.Sprintf("Free Margin:  %12.2f", account.FreeMargin))
	return sb.String()
}

func (d *Dashboard) renderPositions(account models.AccountState) string {
	var sb strings.Builder
	sb.WriteString("Open Positions\n\n")

	if len(account.Positions) == 0 {
		sb.WriteString("No open positions")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-10s %-5s %8s %12s %12s %12s\n",
		"Ticket", "Side", "Lots", "Entry", "Current", "PnL"))
	for _, pos := range account.Positions {
		line := fmt.Sprintf("%-10s %-5s %8.2f %12.5f %12.5f %12.2f",
			pos.Ticket, pos.Side, pos.Lots, pos.EntryPrice, pos.CurrentPrice, pos.PnL)
		if pos.PnL >= 0 {
			sb.WriteString(profitStyle.Render(line))
		} else {
			sb.WriteString(lossStyle.Render(line))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (d *Dashboard) renderTrail() string {
	var sb strings.Builder
	sb.WriteString("Agent Log\n\n")

	entries := d.scheduler.Trail().Entries()
	if len(entries) == 0 {
		sb.WriteString("No activity yet...")
		return sb.String()
	}

	const maxLines = 8
	start := 0
	if len(entries) > maxLines {
		start = len(entries) - maxLines
	}
	for _, entry := range entries[start:] {
		line := fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05"), truncate(entry.Message, 64))
		switch entry.Severity {
		case models.SeveritySuccess:
			sb.WriteString(successStyle.Render(line))
		case models.SeverityWarning:
			sb.WriteString(warningStyle.Render(line))
		case models.SeverityError:
			sb.WriteString(errStyle.Render(line))
		default:
			sb.WriteString(infoStyle.Render(line))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
