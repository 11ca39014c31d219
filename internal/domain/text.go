package domain

import (
	"fmt"
	"strconv"
)

// Title is the chart heading for a snapshot. The comparison is named only
// when it contributed data.
func Title(s Snapshot) string {
	title := "Sea Level Change Over Time - " + s.Selection.Primary
	if s.Selection.HasComparison() && len(s.Comparison) > 0 {
		title += " vs " + s.Selection.Comparison
	}
	return title
}

// PointCountText summarizes how many points each view plots, e.g. "5 & 3 data points".
func PointCountText(s Snapshot) string {
	text := strconv.Itoa(len(s.Primary))
	if len(s.Comparison) > 0 {
		text += " & " + strconv.Itoa(len(s.Comparison))
	}
	return text + " data points"
}

// Tooltip returns the hover box lines for one record.
func Tooltip(label string, r Record) []string {
	return []string{
		label,
		"ID: " + strconv.Itoa(r.ID),
		"Date: " + FormatDate(r.Date),
		fmt.Sprintf("Change: %.2f mm", r.Value),
	}
}

// HitTooltip returns the hover box lines for a hit result. With two hits each
// block is headed "Graph N (category):".
func HitTooltip(sel SelectionState, hit HitResult) []string {
	switch {
	case hit.Primary != nil && hit.Comparison != nil:
		lines := Tooltip(fmt.Sprintf("Graph 1 (%s):", sel.Primary), hit.Primary.Record)
		return append(lines, Tooltip(fmt.Sprintf("Graph 2 (%s):", sel.Comparison), hit.Comparison.Record)...)
	case hit.Primary != nil:
		return Tooltip(sel.Primary, hit.Primary.Record)
	case hit.Comparison != nil:
		return Tooltip(sel.Comparison, hit.Comparison.Record)
	default:
		return nil
	}
}
