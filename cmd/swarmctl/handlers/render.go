package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/halvard/swarmctl/internal/bootstrap"
	"github.com/halvard/swarmctl/internal/config"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorAmber = lipgloss.Color("#f59e0b")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorAmber)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

// renderFieldErrors produces the accumulated validation failure listing.
func renderFieldErrors(fieldErrs []config.FieldError) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(failStyle.Render(fmt.Sprintf("  Configuration invalid: %d error(s)", len(fieldErrs))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")
	for _, fe := range fieldErrs {
		fmt.Fprintf(&b, "    %-26s %s\n", fe.Field, fe.Message)
	}
	b.WriteString("\n")

	return b.String()
}

// renderSummary produces the end-of-run summary: node states, stack
// convergence, port probes, and everything the run flagged on the way.
func renderSummary(cfg *config.Config, report *bootstrap.Report, runErr error) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  swarmctl: %s", cfg.ManagerHost)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n")

	renderNodeStates(&b, report)
	renderStacks(&b, report)
	renderProbes(&b, report)
	renderEvents(&b, report)

	b.WriteString("\n")
	switch {
	case runErr != nil:
		b.WriteString(failStyle.Render("  Bootstrap failed: " + runErr.Error()))
	case report.Errors() > 0:
		b.WriteString(failStyle.Render(fmt.Sprintf("  Completed with %d error(s)", report.Errors())))
	case len(report.Timeouts()) > 0:
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Completed; still waiting on: %s", strings.Join(report.Timeouts(), ", "))))
	default:
		b.WriteString(okStyle.Render("  Cluster converged"))
	}
	b.WriteString("\n\n")

	return b.String()
}

func renderNodeStates(b *strings.Builder, report *bootstrap.Report) {
	if len(report.States) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Hosts"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")

	hosts := make([]string, 0, len(report.States))
	for host := range report.States {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	for _, host := range hosts {
		state := report.States[host]
		style := warnStyle
		if state == bootstrap.ClusterMember {
			style = okStyle
		}
		fmt.Fprintf(b, "    %-22s %s\n", host, style.Render(state.String()))
	}
}

func renderStacks(b *strings.Builder, report *bootstrap.Report) {
	if len(report.Stacks) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Stacks"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")

	for _, stack := range report.Stacks {
		var status string
		switch {
		case !stack.Deployed:
			status = failStyle.Render("deploy failed")
		case stack.Converged:
			status = okStyle.Render(fmt.Sprintf("converged (%s)", stack.Replicas))
		default:
			status = warnStyle.Render(fmt.Sprintf("not converged after %d attempts", stack.Attempts))
		}
		fmt.Fprintf(b, "    %-22s %s\n", stack.Name, status)
	}
}

func renderProbes(b *strings.Builder, report *bootstrap.Report) {
	if len(report.Probes) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Ports"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")

	for _, probe := range report.Probes {
		status := okStyle.Render("open")
		if !probe.Open {
			status = dimStyle.Render("no answer")
		}
		fmt.Fprintf(b, "    %-6s %-15s %s\n", probe.Port, probe.Stack, status)
	}
}

func renderEvents(b *strings.Builder, report *bootstrap.Report) {
	var flagged []bootstrap.Event
	for _, event := range report.Events {
		if event.Level != bootstrap.LevelInfo {
			flagged = append(flagged, event)
		}
	}
	if len(flagged) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Flagged"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")

	for _, event := range flagged {
		style := warnStyle
		if event.Level == bootstrap.LevelError {
			style = failStyle
		}
		fmt.Fprintf(b, "    %s %s: %s\n", style.Render(string(event.Level)), event.Host, event.Message)
	}
}
