package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/kanboard/internal/models"
	"github.com/tgienger/kanboard/internal/stats"
	"github.com/tgienger/kanboard/internal/ui/styles"
)

// barChart is a horizontal bar chart redrawn from a stats.Chart
type barChart struct {
	title  string
	chart  stats.Chart
	styles *styles.Styles
}

func newBarChart(title string, s *styles.Styles) *barChart {
	return &barChart{title: title, styles: s}
}

// Update replaces the series the chart draws
func (c *barChart) Update(chart stats.Chart) {
	c.chart = chart
}

func (c *barChart) View(width int) string {
	s := c.styles
	lines := []string{s.StatLabel.Render(c.title)}

	labelW := 0
	peak := 0
	for i, l := range c.chart.Labels {
		labelW = max(labelW, lipgloss.Width(l))
		peak = max(peak, c.chart.Series[i])
	}
	labelW = min(labelW, 14)
	barW := max(width-labelW-6, 1)

	for i, l := range c.chart.Labels {
		n := c.chart.Series[i]
		size := 0
		if peak > 0 {
			size = n * barW / peak
		}
		label := fmt.Sprintf("%-*s", labelW, truncate(l, labelW))
		bar := s.ChartBar.Render(strings.Repeat("█", size))
		lines = append(lines, fmt.Sprintf("%s %s %d", label, bar, n))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// dashboard shows the summary cards, completion bar and both charts
type dashboard struct {
	styles       *styles.Styles
	summary      stats.Summary
	completion   progress.Model
	distribution *barChart
	priority     *barChart
}

func newDashboard(s *styles.Styles) *dashboard {
	bar := progress.New(
		progress.WithSolidFill(string(styles.Current.Success)),
		progress.WithoutPercentage(),
	)
	return &dashboard{
		styles:       s,
		completion:   bar,
		distribution: newBarChart("Tasks per column", s),
		priority:     newBarChart("Tasks by priority", s),
	}
}

// Update recomputes everything from the current columns
func (d *dashboard) Update(summary stats.Summary, columns []models.Column) {
	d.summary = summary
	d.distribution.Update(stats.Distribution(columns))
	d.priority.Update(stats.PriorityChart(columns))
}

func (d *dashboard) stat(label string, value string) string {
	return d.styles.Stat.Render(
		d.styles.StatValue.Render(value) + " " + d.styles.StatLabel.Render(label),
	)
}

// View renders the dashboard; charts are left out when compact is set
func (d *dashboard) View(width int, compact bool) string {
	sum := d.summary
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		d.stat("complete", fmt.Sprintf("%d%%", sum.CompletionRate)), " ",
		d.stat("total", fmt.Sprintf("%d", sum.Total)), " ",
		d.stat("done", fmt.Sprintf("%d", sum.Completed)), " ",
		d.stat("in progress", fmt.Sprintf("%d", sum.InProgress)),
	)

	d.completion.Width = clamp(width-2, 10, 60)
	bar := d.completion.ViewAs(float64(sum.CompletionRate) / 100)

	if compact {
		return lipgloss.JoinVertical(lipgloss.Left, cards, bar)
	}

	chartW := clamp(width/2-2, 20, 50)
	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(chartW).Render(d.distribution.View(chartW)),
		"  ",
		lipgloss.NewStyle().Width(chartW).Render(d.priority.View(chartW)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, cards, bar, "", charts)
}
