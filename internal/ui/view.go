package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Analyze Disk"))
	b.WriteString("  " + faintStyle.Render(displayPath(m.path)))
	if m.state == StateListing && m.result != nil {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  |  Total: %s", humanize.IBytes(uint64(m.result.TotalSize)))))
		if m.result.Partial {
			b.WriteString("  " + warnStyle.Render("partial"))
		}
	}
	b.WriteString("\n")

	switch m.state {
	case StateScanning:
		m.renderScanning(&b)
	case StateError:
		m.renderError(&b)
	case StateConfirmingDelete:
		m.renderConfirm(&b)
		m.renderBody(&b)
	default:
		b.WriteString("\n")
		m.renderBody(&b)
	}

	if m.status != "" && m.state != StateScanning {
		b.WriteString("\n" + faintStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderScanning(b *strings.Builder) {
	verb := "Scanning"
	if m.deleting {
		verb = "Deleting"
	}
	fmt.Fprintf(b, "\n%s %s: %s files, %s dirs, %s\n",
		m.spin.View(),
		verb,
		warnStyle.Render(humanize.Comma(m.prog.Files.Load())),
		warnStyle.Render(humanize.Comma(m.prog.Dirs.Load())),
		okStyle.Render(humanize.IBytes(uint64(m.prog.Bytes.Load()))))
	if current := m.prog.Current(); current != "" {
		b.WriteString(faintStyle.Render(shortenPath(displayPath(current), 60)) + "\n")
	}
}

func (m Model) renderError(b *strings.Builder) {
	b.WriteString("\n" + dangerStyle.Render(m.errText) + "\n")
	b.WriteString(faintStyle.Render("r retry  |  ←/b back  |  q quit") + "\n")
}

func (m Model) renderConfirm(b *strings.Builder) {
	if m.pendingDelete == nil {
		return
	}
	fmt.Fprintf(b, "\n%s\n\n", dangerStyle.Render(fmt.Sprintf(
		"Delete %s (%s)? y confirms, any other key cancels",
		m.pendingDelete.Name, humanize.IBytes(uint64(m.pendingDelete.Size)))))
}

func (m Model) renderBody(b *strings.Builder) {
	if m.result == nil {
		return
	}
	switch m.mode {
	case ViewLargeFiles:
		m.renderLargeFiles(b)
	case ViewHotspots:
		m.renderHotspots(b)
	default:
		m.renderListing(b)
	}
}

func (m Model) renderListing(b *strings.Builder) {
	entries := m.result.Entries
	if len(entries) == 0 {
		b.WriteString("  Empty directory\n")
		return
	}

	maxSize := int64(1)
	for _, e := range entries {
		if e.Size > maxSize {
			maxSize = e.Size
		}
	}
	total := m.result.TotalSize

	start, end := pageBounds(m.offset, len(entries), m.cfg.PageSize)
	for idx := start; idx < end; idx++ {
		e := entries[idx]

		var percent float64
		if total > 0 {
			percent = float64(e.Size) / float64(total) * 100
		}
		style := shareStyle(percent)

		icon := "📄"
		if e.Kind == fsentry.KindDirectory {
			icon = "📁"
		}
		size := humanize.IBytes(uint64(e.Size))
		if e.Accuracy == fsentry.Estimated {
			size = "~" + size
		}

		prefix := "    "
		name := fmt.Sprintf("%s %s", icon, padName(trimName(e.Name), nameWidth))
		if idx == m.cursor {
			prefix = " " + selStyle.Render("▶") + "  "
			name = selStyle.Render(name)
		}

		fmt.Fprintf(b, "%s%2d. %s %5.1f%%  |  %s %s",
			prefix, idx+1, sizeBar(e.Size, maxSize, style), percent, name,
			style.Render(fmt.Sprintf("%10s", size)))
		if label := unusedLabel(e.LastAccess); label != "" {
			b.WriteString("  " + faintStyle.Render(label))
		}
		b.WriteString("\n")
	}
}

func (m Model) renderLargeFiles(b *strings.Builder) {
	files := m.result.LargeFiles
	if len(files) == 0 {
		b.WriteString("  No large files found\n")
		return
	}
	maxSize := int64(1)
	for _, f := range files {
		if f.Size > maxSize {
			maxSize = f.Size
		}
	}
	start, end := pageBounds(m.auxOffset, len(files), m.cfg.PageSize)
	for idx := start; idx < end; idx++ {
		f := files[idx]
		prefix := "    "
		if idx == m.auxCursor {
			prefix = " " + selStyle.Render("▶") + "  "
		}
		fmt.Fprintf(b, "%s%2d. %s  📄 %s %s\n",
			prefix, idx+1,
			sizeBar(f.Size, maxSize, accentStyle),
			padName(trimName(shortenPath(displayPath(f.Path), 56)), 56),
			faintStyle.Render(fmt.Sprintf("%10s", humanize.IBytes(uint64(f.Size)))))
	}
}

func (m Model) renderHotspots(b *strings.Builder) {
	spots := m.result.Hotspots
	if len(spots) == 0 {
		b.WriteString("  No hotspots in this scan\n")
		return
	}
	maxSize := int64(1)
	for _, s := range spots {
		if s.TotalSize > maxSize {
			maxSize = s.TotalSize
		}
	}
	start, end := pageBounds(m.auxOffset, len(spots), m.cfg.PageSize)
	for idx := start; idx < end; idx++ {
		s := spots[idx]
		prefix := "    "
		if idx == m.auxCursor {
			prefix = " " + selStyle.Render("▶") + "  "
		}
		fmt.Fprintf(b, "%s%2d. %s  📁 %s %s %s\n",
			prefix, idx+1,
			sizeBar(s.TotalSize, maxSize, warnStyle),
			padName(trimName(filepath.Base(s.Dir)), nameWidth),
			warnStyle.Render(fmt.Sprintf("%10s", humanize.IBytes(uint64(s.TotalSize)))),
			faintStyle.Render(fmt.Sprintf("(%d files)", s.FileCount)))
	}
}

func pageBounds(offset, n, page int) (int, int) {
	start := offset
	if start < 0 {
		start = 0
	}
	end := start + page
	if end > n {
		end = n
	}
	return start, end
}
