package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stamp renders a timestamp in the wire format.
func Stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ShortStamp renders a timestamp without milliseconds, for tables.
func ShortStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// DeltaBadge renders a signed minute delta with urgency coloring: green for
// no movement, yellow for small pushes, red past four hours.
func DeltaBadge(minutes int) string {
	label := fmt.Sprintf("%+dm", minutes)
	switch {
	case minutes == 0:
		return StyleGreen.Render("±0m")
	case minutes <= 240 && minutes >= -240:
		return StyleYellow.Render(label)
	default:
		return StyleRed.Render(label)
	}
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}
