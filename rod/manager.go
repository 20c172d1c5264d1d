// Package rod drives the registry listing through a Chrome browser
// using go-rod. It implements the ficha.Listing and ficha.Detail
// capabilities: pagination, modal handling, and PDF capture of a
// modal's content in an isolated snapshot page.
package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxSnapshots is the default number of PDF captures before the
// snapshot browser is recycled.
const DefaultMaxSnapshots = 75

// Manager owns the browser lifecycle for one run. Two browsers are
// managed separately:
//
// The listing browser holds the single live page whose in-memory
// pagination state the whole run depends on; it is never recycled.
//
// The snapshot browser renders the throwaway capture pages. Chrome
// accumulates renderer memory over time (~0.5MB/s under load) and the
// baseline never returns to initial levels even with proper page
// cleanup, so this browser is torn down and relaunched after
// maxSnapshots captures. Recycling it cannot disturb the listing.
//
// Manager is safe for concurrent use, though the pipeline itself is
// strictly sequential.
type Manager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	headful  bool

	snapshot         *rod.Browser
	snapshotLauncher *launcher.Launcher
	snapshotCount    int
	maxSnapshots     int
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithHeadful makes the browser visible instead of headless, for
// debugging runs.
func WithHeadful() ManagerOption {
	return func(m *Manager) {
		m.headful = true
	}
}

// WithMaxSnapshots sets the number of captures before the snapshot
// browser is recycled. Defaults to DefaultMaxSnapshots.
func WithMaxSnapshots(n int) ManagerOption {
	return func(m *Manager) {
		m.maxSnapshots = n
	}
}

// NewManager launches a Chrome browser with stability flags suitable
// for multi-hour runs. The snapshot browser is launched lazily on the
// first capture. Close must be called when the Manager is no longer
// needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{maxSnapshots: DefaultMaxSnapshots}
	for _, opt := range opts {
		opt(m)
	}

	browser, lnchr, err := m.launch()
	if err != nil {
		return nil, err
	}
	m.browser = browser
	m.launcher = lnchr
	return m, nil
}

// launch starts one browser instance with stability flags.
func (m *Manager) launch() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("no-sandbox").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(!m.headful)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, lnchr, nil
}

// Browser returns the listing browser instance.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser
}

// SnapshotPage returns a fresh blank page in the snapshot browser,
// launching or recycling that browser as needed. The caller owns the
// page and must close it after the capture.
func (m *Manager) SnapshotPage() (*rod.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot != nil && m.snapshotCount >= m.maxSnapshots {
		m.closeSnapshot()
	}
	if m.snapshot == nil {
		browser, lnchr, err := m.launch()
		if err != nil {
			return nil, err
		}
		m.snapshot = browser
		m.snapshotLauncher = lnchr
		m.snapshotCount = 0
	}

	page, err := m.snapshot.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("creating snapshot page: %w", err)
	}
	m.snapshotCount++
	return page, nil
}

// Close releases all browser resources. Close is safe to call
// multiple times.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	m.closeSnapshot()
	return err
}

// closeSnapshot tears down the snapshot browser. Must be called with
// mu held.
func (m *Manager) closeSnapshot() {
	if m.snapshot != nil {
		_ = m.snapshot.Close()
		m.snapshot = nil
	}
	if m.snapshotLauncher != nil {
		m.snapshotLauncher.Kill()
		m.snapshotLauncher = nil
	}
}

// LauncherPID returns the listing browser launcher's process ID, or
// zero after Close.
func (m *Manager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}
