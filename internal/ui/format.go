package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	nameWidth = 30
	barWidth  = 24
)

func displayPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

func shortenPath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}

// trimName truncates a display name to nameWidth terminal cells, keeping
// wide (CJK) runes intact.
func trimName(name string) string {
	if lipgloss.Width(name) <= nameWidth {
		return name
	}
	const ellipsis = "..."
	budget := nameWidth - len(ellipsis)
	var b strings.Builder
	width := 0
	for _, r := range name {
		w := lipgloss.Width(string(r))
		if width+w > budget {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String() + ellipsis
}

func padName(name string, target int) string {
	width := lipgloss.Width(name)
	if width >= target {
		return name
	}
	return name + strings.Repeat(" ", target-width)
}

// sizeBar renders a filled bar proportional to value/max.
func sizeBar(value, max int64, style lipgloss.Style) string {
	if max <= 0 || value < 0 {
		return faintStyle.Render(strings.Repeat("░", barWidth))
	}
	filled := int(value * barWidth / max)
	if filled > barWidth {
		filled = barWidth
	}
	bar := style.Render(strings.Repeat("█", filled))
	if filled < barWidth {
		bar += faintStyle.Render(strings.Repeat("░", barWidth-filled))
	}
	return bar
}

// shareStyle maps a percentage of the listing total to a severity color.
func shareStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 50:
		return dangerStyle
	case percent >= 20:
		return warnStyle
	case percent >= 5:
		return accentStyle
	default:
		return okStyle
	}
}

// unusedLabel describes how long an entry has gone untouched, shown only
// past three months.
func unusedLabel(lastAccess time.Time) string {
	if lastAccess.IsZero() {
		return ""
	}
	days := int(time.Since(lastAccess).Hours() / 24)
	if days < 90 {
		return ""
	}
	if years := days / 365; years >= 2 {
		return fmt.Sprintf(">%dyr unused", years)
	} else if years >= 1 {
		return ">1yr unused"
	}
	return fmt.Sprintf(">%dmo unused", days/30)
}
