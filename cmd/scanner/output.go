package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arvindk1/options-strategy-scanner/internal/provider"
	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for secondary text and table borders.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages and failed tickers.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// OKStyle for successful outcomes.
	OKStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(HelpStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TitleStyle.Padding(0, 1)
			}

			return cellStyle
		})
}

// encode writes v as JSON or YAML. Table output is handled by the callers.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatExtra renders the pass-through fields as sorted key=value pairs.
func formatExtra(extra map[string]any) string {
	if len(extra) == 0 {
		return ""
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value := extra[key]
		if f, ok := value.(float64); ok {
			parts = append(parts, key+"="+formatNumber(f))

			continue
		}

		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}

	return strings.Join(parts, " ")
}

func writeScan(w io.Writer, format string, resp types.ScanResponse) error {
	if format != formatTable {
		return encode(w, format, resp)
	}

	header := fmt.Sprintf("Scan %s  strategy=%s  provider=%s", resp.ScanID, resp.StrategyID, resp.Provider)
	fmt.Fprintln(w, TitleStyle.Render(header))

	if resp.RequestedProvider != resp.Provider && resp.RequestedProvider != types.DefaultProvider {
		fmt.Fprintln(w, HelpStyle.Render(fmt.Sprintf("requested provider %q is not registered, used %s", resp.RequestedProvider, resp.Provider)))
	}

	if len(resp.Opportunities) == 0 {
		fmt.Fprintln(w, HelpStyle.Render("no opportunities found"))
	} else {
		opps := newTable("Ticker", "Score", "Expected Return", "Max Risk", "Details")
		for _, opp := range resp.Opportunities {
			opps.Row(opp.Ticker, formatNumber(opp.Score), formatNumber(opp.ExpectedReturn), formatNumber(opp.MaxRisk), formatExtra(opp.Extra))
		}

		fmt.Fprintln(w, opps.String())
	}

	report := newTable("Ticker", "Status", "Opportunities", "Error")
	for _, t := range resp.Tickers {
		status := OKStyle.Render(string(t.Status))
		message := ""

		if t.Error != nil {
			status = ErrorStyle.Render(string(t.Status))
			message = fmt.Sprintf("[%s] %s", t.Error.Kind, t.Error.Message)
		}

		report.Row(t.Ticker, status, fmt.Sprint(t.OpportunityCount), message)
	}

	fmt.Fprintln(w, report.String())

	return nil
}

func writeStrategies(w io.Writer, format string, list []types.StrategyDescriptor) error {
	if format != formatTable {
		return encode(w, format, list)
	}

	t := newTable("ID", "Name", "Risk", "Description")
	for _, desc := range list {
		t.Row(desc.ID, desc.Name, desc.RiskLevel, desc.Description)
	}

	fmt.Fprintln(w, t.String())

	return nil
}

func writeProviders(w io.Writer, format string, infos []provider.Info) error {
	if format != formatTable {
		return encode(w, format, infos)
	}

	t := newTable("Name", "Default", "Description")
	for _, info := range infos {
		def := ""
		if info.Default {
			def = "yes"
		}

		t.Row(info.Name, def, info.Description)
	}

	fmt.Fprintln(w, t.String())

	return nil
}

func writeTickers(w io.Writer, format string, tickers []types.TickerInfo) error {
	if format != formatTable {
		return encode(w, format, tickers)
	}

	t := newTable("Symbol", "Name", "Category")
	for _, info := range tickers {
		t.Row(info.Symbol, info.Name, info.Category)
	}

	fmt.Fprintln(w, t.String())

	return nil
}
