package render

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

const (
	chartWidth  = 64
	chartHeight = 12
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	starsBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("48"))

	// One color per language slice, in chart order.
	languagePalette = []lipgloss.Color{"33", "48", "220", "160", "135", "51"}
)

// Analytics renders the summary block followed by both charts.
func Analytics(a domain.Analytics) string {
	var sb strings.Builder
	sb.WriteString(Summary(a))
	sb.WriteString("\n")
	sb.WriteString(sectionStyle.Render("Top Repositories by Stars"))
	sb.WriteString("\n")
	sb.WriteString(StarsChart(a.TopByStars))
	sb.WriteString("\n")
	sb.WriteString(sectionStyle.Render("Language Distribution"))
	sb.WriteString("\n")
	sb.WriteString(LanguageChart(a.Languages))
	sb.WriteString("\n")
	return sb.String()
}

// Summary renders the headline totals.
func Summary(a domain.Analytics) string {
	rows := []struct {
		label string
		value int
	}{
		{"Total Stars", a.TotalStars},
		{"Total Forks", a.TotalForks},
		{"Total Watchers", a.TotalWatchers},
		{"Avg Stars", a.AverageStars},
	}
	lines := make([]string, 0, len(rows)+1)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-15s", r.label)), valueStyle.Render(FormatThousands(r.value))))
	}
	lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-15s", "Median Stars")), valueStyle.Render(fmt.Sprintf("%.1f", a.MedianStars))))
	return strings.Join(lines, "\n")
}

// StarsChart draws a horizontal bar per repository.
func StarsChart(repos []*domain.Repository) string {
	if len(repos) == 0 {
		return dimStyle.Render("no data")
	}
	data := make([]barchart.BarData, 0, len(repos))
	for _, repo := range repos {
		data = append(data, barchart.BarData{
			Label: TruncateName(repo.Name),
			Values: []barchart.BarValue{{
				Name:  repo.Name,
				Value: float64(repo.Stars),
				Style: starsBarStyle,
			}},
		})
	}
	return drawBars(data)
}

// LanguageChart draws a horizontal bar per language.
func LanguageChart(langs []domain.LanguageCount) string {
	if len(langs) == 0 {
		return dimStyle.Render("no data")
	}
	data := make([]barchart.BarData, 0, len(langs))
	for i, l := range langs {
		data = append(data, barchart.BarData{
			Label: l.Language,
			Values: []barchart.BarValue{{
				Name:  l.Language,
				Value: float64(l.Count),
				Style: lipgloss.NewStyle().Foreground(languagePalette[i%len(languagePalette)]),
			}},
		})
	}
	return drawBars(data)
}

func drawBars(data []barchart.BarData) string {
	height := len(data)*2 + 1
	if height < chartHeight {
		height = chartHeight
	}
	chart := barchart.New(chartWidth, height, barchart.WithHorizontalBars())
	chart.PushAll(data)
	chart.Draw()
	return chart.View()
}
