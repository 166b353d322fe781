// Package ui implements the interactive drill-down navigator: a bubbletea
// state machine over scan results with open/back/refresh/delete actions.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/ojisanchamchi/mac-cleaner/internal/cache"
	"github.com/ojisanchamchi/mac-cleaner/internal/fsentry"
	"github.com/ojisanchamchi/mac-cleaner/internal/probe"
	"github.com/ojisanchamchi/mac-cleaner/internal/scan"
)

// State is the navigator's mode. Listing renders a page and waits for
// input; Scanning blocks on the coordinator; ConfirmingDelete waits for an
// explicit yes; Error shows a failed scan with retry on offer.
type State int

const (
	StateListing State = iota
	StateScanning
	StateConfirmingDelete
	StateError
)

// ExitReason distinguishes how a session ended: backing out past the top of
// the stack returns control to the caller, quitting aborts outright. A
// parent menu resumes on ExitReturned and exits on ExitAborted.
type ExitReason int

const (
	ExitNone ExitReason = iota
	ExitReturned
	ExitAborted
)

// ViewMode selects which section of the current result is on screen.
type ViewMode int

const (
	ViewListing ViewMode = iota
	ViewLargeFiles
	ViewHotspots
)

const defaultPageSize = 12

// frame is one suspended ancestor listing on the back-stack.
type frame struct {
	path   string
	result *fsentry.ScanResult
	cursor int
	offset int
	dirty  bool
}

type scanDoneMsg struct {
	path   string
	result *fsentry.ScanResult
	err    error
}

type deleteDoneMsg struct {
	path  string
	freed int64
	err   error
}

// Config wires the navigator's collaborators. Zero-value fields get
// production defaults from Run.
type Config struct {
	Target      string
	WholeTree   bool
	PageSize    int
	Cache       *cache.Cache
	Coordinator *scan.Coordinator
	Workflow    *Workflow
	Opener      func(path string, reveal bool) error
}

// Model is the navigator. All mutable session state lives here and moves
// through Update; nothing is process-global.
type Model struct {
	cfg  Config
	keys keyMap
	help help.Model
	spin spinner.Model
	prog *scan.Progress

	state State
	mode  ViewMode
	exit  ExitReason

	path   string
	stack  []frame
	result *fsentry.ScanResult

	cursor    int
	offset    int
	auxCursor int
	auxOffset int

	pendingDelete *fsentry.Entry
	deleting      bool
	retried       bool
	status        string
	errText       string
}

// NewModel builds a navigator rooted at cfg.Target.
func NewModel(cfg Config) Model {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Opener == nil {
		cfg.Opener = systemOpen
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		cfg:    cfg,
		keys:   defaultKeyMap(),
		help:   help.New(),
		spin:   sp,
		prog:   &scan.Progress{},
		state:  StateScanning,
		path:   cfg.Target,
		status: "Preparing scan...",
	}
}

// ExitReason reports how the session ended, valid after the program quits.
func (m Model) ExitReason() ExitReason { return m.exit }

// State reports the current machine state.
func (m Model) State() State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(m.path, false), m.spin.Tick)
}

// scanCmd produces the scan command for path. The session tier has already
// been consulted by the caller; whole-tree root scans may still be served
// by the disk tier unless force is set.
func (m Model) scanCmd(path string, force bool) tea.Cmd {
	cfg := m.cfg
	prog := m.prog
	wholeTree := cfg.WholeTree && path == cfg.Target
	return func() tea.Msg {
		if wholeTree && !force && cfg.Cache != nil {
			if res, ok := cfg.Cache.LoadRoot(path); ok {
				return scanDoneMsg{path: path, result: res}
			}
		}
		res, err := cfg.Coordinator.Scan(context.Background(), path, scan.Options{
			WholeTree: wholeTree,
		}, prog)
		if err != nil {
			return scanDoneMsg{path: path, err: err}
		}
		if cfg.Cache != nil {
			cfg.Cache.Put(path, res)
			if wholeTree && !res.Partial {
				saved := res.Clone()
				go func() { _ = cfg.Cache.StoreRoot(path, saved) }()
			}
		}
		return scanDoneMsg{path: path, result: res}
	}
}

func (m Model) deleteCmd(entry fsentry.Entry) tea.Cmd {
	wf := m.cfg.Workflow
	return func() tea.Msg {
		freed, err := wf.Delete(context.Background(), entry)
		return deleteDoneMsg{path: entry.Path, freed: freed, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case spinner.TickMsg:
		if m.state != StateScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case scanDoneMsg:
		return m.onScanDone(msg)
	case deleteDoneMsg:
		return m.onDeleteDone(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works from any state; everything else depends on the state.
	if key.Matches(msg, m.keys.Quit) {
		m.exit = ExitAborted
		return m, tea.Quit
	}

	switch m.state {
	case StateScanning:
		// Input arriving while a scan runs is discarded, not queued; a
		// backlog of stale navigation would replay against fresh results.
		return m, nil
	case StateConfirmingDelete:
		return m.updateConfirmKey(msg)
	case StateError:
		return m.updateErrorKey(msg)
	}
	return m.updateListingKey(msg)
}

func (m Model) updateConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "delete", "backspace":
		if m.pendingDelete == nil {
			m.state = StateListing
			return m, nil
		}
		target := *m.pendingDelete
		m.pendingDelete = nil
		m.deleting = true
		m.state = StateScanning
		m.status = fmt.Sprintf("Deleting %s...", target.Name)
		return m, tea.Batch(m.deleteCmd(target), m.spin.Tick)
	default:
		// Anything but an explicit yes cancels; no default-yes.
		m.pendingDelete = nil
		m.state = StateListing
		m.status = "Cancelled"
		return m, nil
	}
}

func (m Model) updateErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.startScan(m.path, true)
	case key.Matches(msg, m.keys.Back):
		return m.goBack()
	}
	return m, nil
}

func (m Model) updateListingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	case key.Matches(msg, m.keys.Back):
		if m.mode != ViewListing {
			m.mode = ViewListing
			return m, nil
		}
		return m.goBack()
	case key.Matches(msg, m.keys.Refresh):
		if m.cfg.Cache != nil {
			m.cfg.Cache.Invalidate(m.path)
		}
		return m.startScan(m.path, true)
	case key.Matches(msg, m.keys.Large):
		m.toggleMode(ViewLargeFiles)
	case key.Matches(msg, m.keys.Hotspots):
		m.toggleMode(ViewHotspots)
	case key.Matches(msg, m.keys.OpenItem):
		return m.openExternal(false)
	case key.Matches(msg, m.keys.Reveal):
		return m.openExternal(true)
	case key.Matches(msg, m.keys.Delete):
		return m.askDelete()
	}
	return m, nil
}

func (m *Model) toggleMode(mode ViewMode) {
	if m.mode == mode {
		m.mode = ViewListing
		return
	}
	if mode == ViewHotspots && (m.result == nil || len(m.result.Hotspots) == 0) {
		m.status = "No hotspots in this scan"
		return
	}
	m.mode = mode
	m.auxCursor = 0
	m.auxOffset = 0
}

func (m *Model) moveCursor(delta int) {
	cursor, offset := &m.cursor, &m.offset
	n := m.itemCount()
	if m.mode != ViewListing {
		cursor, offset = &m.auxCursor, &m.auxOffset
	}
	*cursor += delta
	*cursor, *offset = clampCursor(*cursor, *offset, n, m.cfg.PageSize)
}

// clampCursor enforces cursor < n and offset <= cursor < offset+page.
func clampCursor(cursor, offset, n, page int) (int, int) {
	if n == 0 {
		return 0, 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	if offset > cursor {
		offset = cursor
	}
	if cursor >= offset+page {
		offset = cursor - page + 1
	}
	if offset < 0 {
		offset = 0
	}
	return cursor, offset
}

func (m Model) itemCount() int {
	if m.result == nil {
		return 0
	}
	switch m.mode {
	case ViewLargeFiles:
		return len(m.result.LargeFiles)
	case ViewHotspots:
		return len(m.result.Hotspots)
	}
	return len(m.result.Entries)
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	if m.result == nil {
		return m, nil
	}
	if m.mode == ViewHotspots {
		if m.auxCursor < len(m.result.Hotspots) {
			return m.drillInto(m.result.Hotspots[m.auxCursor].Dir)
		}
		return m, nil
	}
	if m.mode == ViewLargeFiles {
		return m, nil
	}
	if m.cursor >= len(m.result.Entries) {
		return m, nil
	}
	selected := m.result.Entries[m.cursor]
	if selected.Kind != fsentry.KindDirectory {
		m.status = fmt.Sprintf("File: %s (%s)", selected.Name, humanize.IBytes(uint64(selected.Size)))
		return m, nil
	}
	if selected.Path == m.path {
		// The synthesized placeholder for an empty directory points at the
		// directory itself; drilling into it would loop.
		m.status = "Directory is empty — press r to rescan"
		return m, nil
	}
	return m.drillInto(selected.Path)
}

func (m Model) drillInto(path string) (tea.Model, tea.Cmd) {
	m.stack = append(m.stack, frame{
		path:   m.path,
		result: m.result,
		cursor: m.cursor,
		offset: m.offset,
	})
	m.path = path
	m.cursor = 0
	m.offset = 0
	m.mode = ViewListing
	m.retried = false

	if m.cfg.Cache != nil {
		if res, ok := m.cfg.Cache.Get(path); ok {
			m.result = res
			m.state = StateListing
			m.status = fmt.Sprintf("Cached view of %s", displayPath(path))
			return m, nil
		}
	}
	return m.startScan(path, false)
}

func (m Model) goBack() (tea.Model, tea.Cmd) {
	if len(m.stack) == 0 {
		// Top of the stack: hand control back to the caller. Not a quit —
		// the caller may have its own menu to resume.
		m.exit = ExitReturned
		return m, tea.Quit
	}
	last := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.path = last.path
	m.cursor = last.cursor
	m.offset = last.offset
	m.mode = ViewListing
	m.retried = false

	if last.dirty || last.result == nil {
		return m.startScan(m.path, true)
	}
	m.result = last.result
	m.cursor, m.offset = clampCursor(m.cursor, m.offset, len(m.result.Entries), m.cfg.PageSize)
	m.state = StateListing
	m.status = fmt.Sprintf("Total %s", humanize.IBytes(uint64(m.result.TotalSize)))
	return m, nil
}

func (m Model) startScan(path string, force bool) (tea.Model, tea.Cmd) {
	m.state = StateScanning
	m.deleting = false
	m.status = "Scanning..."
	m.prog.Reset()
	return m, tea.Batch(m.scanCmd(path, force), m.spin.Tick)
}

func (m Model) askDelete() (tea.Model, tea.Cmd) {
	if m.result == nil {
		return m, nil
	}
	var target fsentry.Entry
	switch m.mode {
	case ViewLargeFiles:
		if m.auxCursor >= len(m.result.LargeFiles) {
			return m, nil
		}
		hit := m.result.LargeFiles[m.auxCursor]
		target = fsentry.Entry{
			Path: hit.Path,
			Name: filepath.Base(hit.Path),
			Kind: fsentry.KindFile,
			Size: hit.Size,
		}
	case ViewHotspots:
		m.status = "Drill into a hotspot to delete its contents"
		return m, nil
	default:
		if m.cursor >= len(m.result.Entries) {
			return m, nil
		}
		target = m.result.Entries[m.cursor]
		if target.Path == m.path {
			m.status = "Nothing to delete in an empty directory"
			return m, nil
		}
	}
	m.pendingDelete = &target
	m.state = StateConfirmingDelete
	return m, nil
}

func (m Model) openExternal(reveal bool) (tea.Model, tea.Cmd) {
	path, name := m.selectedPath()
	if path == "" {
		return m, nil
	}
	open := m.cfg.Opener
	go func() { _ = open(path, reveal) }()
	if reveal {
		m.status = fmt.Sprintf("Revealing %s...", name)
	} else {
		m.status = fmt.Sprintf("Opening %s...", name)
	}
	return m, nil
}

func (m Model) selectedPath() (path, name string) {
	if m.result == nil {
		return "", ""
	}
	switch m.mode {
	case ViewLargeFiles:
		if m.auxCursor < len(m.result.LargeFiles) {
			p := m.result.LargeFiles[m.auxCursor].Path
			return p, filepath.Base(p)
		}
	case ViewHotspots:
		if m.auxCursor < len(m.result.Hotspots) {
			p := m.result.Hotspots[m.auxCursor].Dir
			return p, filepath.Base(p)
		}
	default:
		if m.cursor < len(m.result.Entries) {
			e := m.result.Entries[m.cursor]
			return e.Path, e.Name
		}
	}
	return "", ""
}

func (m Model) onScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.path != m.path {
		// A navigation already superseded this scan; drop the result.
		return m, nil
	}
	m.deleting = false
	if msg.err != nil {
		if errors.Is(msg.err, fs.ErrNotExist) {
			// Path vanished between listing and drill-down: one-line note,
			// fall back to the parent.
			m.errText = fmt.Sprintf("%s is gone; rescanning parent", displayPath(m.path))
			return m.vanishToParent()
		}
		m.state = StateError
		m.errText = msg.err.Error()
		return m, nil
	}

	result := msg.result
	if len(result.Entries) == 0 {
		if !m.retried {
			// One silent retry before declaring the directory empty.
			m.retried = true
			return m.startScan(m.path, true)
		}
		result = result.Clone()
		result.Entries = []fsentry.Entry{placeholderEntry(m.path)}
	}

	m.result = result
	m.state = StateListing
	m.cursor, m.offset = clampCursor(m.cursor, m.offset, len(result.Entries), m.cfg.PageSize)
	m.auxCursor, m.auxOffset = 0, 0
	switch {
	case result.Partial:
		m.status = fmt.Sprintf("Partial scan (%s) — press r to retry", humanize.IBytes(uint64(result.TotalSize)))
	case len(msg.result.Entries) == 0:
		m.status = "Directory is empty — press r to rescan"
	default:
		m.status = fmt.Sprintf("Scanned %s in %s", humanize.IBytes(uint64(result.TotalSize)), result.Elapsed.Round(10*time.Millisecond))
	}
	return m, nil
}

func (m Model) vanishToParent() (tea.Model, tea.Cmd) {
	if m.cfg.Cache != nil {
		m.cfg.Cache.InvalidateTree(m.path)
	}
	if len(m.stack) == 0 {
		m.state = StateError
		return m, nil
	}
	last := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.path = last.path
	m.cursor, m.offset = last.cursor, last.offset
	m.mode = ViewListing
	return m.startScan(m.path, true)
}

func (m Model) onDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	if msg.err != nil {
		// Failed delete leaves the listing untouched.
		m.state = StateListing
		m.status = fmt.Sprintf("Delete failed: %v", msg.err)
		return m, nil
	}

	if m.cfg.Cache != nil {
		m.cfg.Cache.InvalidateTree(msg.path)
		m.cfg.Cache.Invalidate(m.path)
	}
	// Every suspended ancestor listing included this subtree's size.
	for i := range m.stack {
		m.stack[i].dirty = true
		if m.cfg.Cache != nil {
			m.cfg.Cache.Invalidate(m.stack[i].path)
		}
	}
	if m.result != nil && m.cursor > len(m.result.Entries)-2 {
		m.cursor = len(m.result.Entries) - 2
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	m.status = fmt.Sprintf("Freed %s", humanize.IBytes(uint64(msg.freed)))
	return m.startScan(m.path, true)
}

func placeholderEntry(path string) fsentry.Entry {
	return fsentry.Entry{
		Path:     path,
		Name:     filepath.Base(path),
		Kind:     fsentry.KindDirectory,
		Size:     1,
		Accuracy: fsentry.Estimated,
	}
}

// Run drives a full navigator session and reports how it ended. The session
// cache directory is removed however the session terminates.
func Run(cfg Config) (ExitReason, error) {
	if cfg.Cache == nil {
		c, err := cache.Open("mole-analyze")
		if err != nil {
			return ExitAborted, err
		}
		cfg.Cache = c
	}
	defer cfg.Cache.Close()

	if cfg.Coordinator == nil {
		cfg.Coordinator = scan.New(probe.New(), probe.SpotlightSearch)
	}
	if cfg.Workflow == nil {
		cfg.Workflow = NewWorkflow()
	}

	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return ExitAborted, err
	}
	model, ok := final.(Model)
	if !ok || model.exit == ExitNone {
		return ExitAborted, nil
	}
	return model.exit, nil
}
