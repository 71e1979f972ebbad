package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

const (
	cardWidth        = 64
	cardTopicLimit   = 3
	noDescription    = "No description available"
	bookmarkedMark   = "★ bookmarked"
	unbookmarkedMark = "☆"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(cardWidth)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	topicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	languageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))
)

// Card renders one repository.
func Card(repo *domain.Repository, bookmarked bool) string {
	mark := unbookmarkedMark
	if bookmarked {
		mark = bookmarkedMark
	}

	name := repo.FullName
	if name == "" {
		name = repo.Owner.Login + "/" + repo.Name
	}
	description := repo.Description
	if description == "" {
		description = noDescription
	}

	lines := []string{
		titleStyle.Render(name) + "  " + mark,
		description,
	}
	if topics := TopicBadges(repo.Topics); topics != "" {
		lines = append(lines, topicStyle.Render(topics))
	}

	stats := fmt.Sprintf("★ %s  ⑂ %s  ◉ %s",
		FormatCount(repo.Stars), FormatCount(repo.Forks), FormatCount(repo.Watchers))
	if repo.Language != "" {
		stats += "  " + languageStyle.Render(repo.Language)
	}
	lines = append(lines,
		stats,
		dimStyle.Render("Updated "+FormatDate(repo.UpdatedAt)),
		dimStyle.Render(repo.HTMLURL),
	)
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// Cards renders repos one under the other. bookmarked is consulted per id.
func Cards(repos []*domain.Repository, bookmarked map[int64]bool) string {
	rendered := make([]string, 0, len(repos))
	for _, repo := range repos {
		rendered = append(rendered, Card(repo, bookmarked[repo.ID]))
	}
	return strings.Join(rendered, "\n")
}

// TopicBadges lists the first three topics and counts the rest: "#a #b #c +2".
func TopicBadges(topics []string) string {
	if len(topics) == 0 {
		return ""
	}
	shown := topics
	if len(shown) > cardTopicLimit {
		shown = shown[:cardTopicLimit]
	}
	badges := make([]string, 0, len(shown)+1)
	for _, t := range shown {
		badges = append(badges, "#"+t)
	}
	if rest := len(topics) - len(shown); rest > 0 {
		badges = append(badges, fmt.Sprintf("+%d", rest))
	}
	return strings.Join(badges, " ")
}
