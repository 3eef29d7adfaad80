package game

import (
	"fmt"
	"strings"

	"github.com/tatianab/text-rpg/internal/models"
)

// ContextWindow is how many trailing history entries are replayed to the
// engine each turn. Anything older only survives through the summary.
const ContextWindow = 5

// RecentHistory formats the last n history entries, oldest first, as
// newline-separated "role: content" lines.
func RecentHistory(history []models.HistoryItem, n int) string {
	if n <= 0 {
		return ""
	}
	start := max(0, len(history)-n)

	lines := make([]string, 0, len(history)-start)
	for _, h := range history[start:] {
		lines = append(lines, fmt.Sprintf("%s: %s", h.Role, h.Content))
	}
	return strings.Join(lines, "\n")
}
