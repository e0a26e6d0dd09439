package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/k8xform/internal/transformer"
)

var (
	statusColorGreen  = lipgloss.Color("#22c55e")
	statusColorYellow = lipgloss.Color("#eab308")
	statusColorRed    = lipgloss.Color("#ef4444")
	statusColorDim    = lipgloss.Color("#6b7280")
	statusColorWhite  = lipgloss.Color("#f9fafb")
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorWhite)

	statusDimStyle = lipgloss.NewStyle().
			Foreground(statusColorDim)

	phaseStyles = map[transformer.Phase]lipgloss.Style{
		transformer.PhaseActive:    lipgloss.NewStyle().Bold(true).Foreground(statusColorGreen),
		transformer.PhaseLaunching: lipgloss.NewStyle().Bold(true).Foreground(statusColorYellow),
		transformer.PhaseAbsent:    lipgloss.NewStyle().Bold(true).Foreground(statusColorRed),
	}
)

// renderStatus formats a status report. Styling is applied only when
// styled is set.
func renderStatus(report *StatusReport, styled bool) string {
	plain := func(s string) string { return s }
	title, dim := plain, plain
	phase := string(report.Phase)
	if styled {
		title = func(s string) string { return statusTitleStyle.Render(s) }
		dim = func(s string) string { return statusDimStyle.Render(s) }
		phase = phaseStyles[report.Phase].Render(phase)
	}

	var b strings.Builder
	b.WriteString(title(fmt.Sprintf("transformer %s", report.RequestID)))
	b.WriteString("\n")
	b.WriteString(dim(strings.Repeat("─", 30)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Namespace:   %s\n", report.Namespace)
	fmt.Fprintf(&b, "  Deployment:  %s\n", report.Deployment)
	fmt.Fprintf(&b, "  Phase:       %s\n", phase)

	if report.Phase == transformer.PhaseAbsent {
		b.WriteString(dim("  No worker deployment found."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  Replicas:    %d available / %d ready / %d updated / %d total\n",
		report.AvailableReplicas, report.ReadyReplicas, report.UpdatedReplicas, report.Replicas)
	fmt.Fprintf(&b, "  Ready:       %t\n", report.Ready)
	return b.String()
}
