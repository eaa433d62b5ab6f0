// Package browserpool implements component B: a pool of headless
// Chromium instances (via go-rod) that the scrape engine borrows for
// the lifetime of a single job attempt.
package browserpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// ErrAcquireTimeout is returned by Acquire when no browser becomes
// available within the caller's timeout. The worker fleet treats this
// as a recoverable attempt failure, not a job failure (spec §5's
// backpressure rule).
var ErrAcquireTimeout = errors.New("browserpool: acquire timed out")

// Options configures pool sizing and recycling policy.
type Options struct {
	Min         int
	Max         int
	MaxUses     int           // recycle a browser after this many borrows
	IdleTimeout time.Duration // destroy idle surplus past this age
}

type entry struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	uses     int
	lastIdle time.Time
}

// Pool manages a fleet of headless browser instances.
type Pool struct {
	opts Options

	mu        sync.Mutex
	idle      []*entry
	total     int
	sem       chan struct{}
	launchers map[*rod.Browser]*launcher.Launcher

	closed bool
}

// New creates a Pool. No browsers are launched until first Acquire;
// Min is a floor enforced by the idle reaper, not a startup warm-up.
func New(opts Options) *Pool {
	if opts.Max <= 0 {
		opts.Max = 1
	}
	if opts.MaxUses <= 0 {
		opts.MaxUses = 50
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Minute
	}
	return &Pool{
		opts:      opts,
		sem:       make(chan struct{}, opts.Max),
		launchers: make(map[*rod.Browser]*launcher.Launcher),
	}
}

// Acquire borrows a browser, launching a fresh one if the pool has
// capacity and no idle instance validates. It blocks up to timeout.
func (p *Pool) Acquire(ctx context.Context, timeout time.Duration) (*rod.Browser, error) {
	acquireCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		acquireCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case p.sem <- struct{}{}:
	case <-acquireCtx.Done():
		return nil, ErrAcquireTimeout
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.sem
		return nil, errors.New("browserpool: pool is shut down")
	}
	for len(p.idle) > 0 {
		e := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		p.mu.Unlock()

		if p.Validate(e.browser) {
			return e.browser, nil
		}
		_ = e.browser.Close()
		p.mu.Lock()
		p.total--
	}
	p.mu.Unlock()

	browser, l, err := launch(acquireCtx)
	if err != nil {
		<-p.sem
		return nil, err
	}

	p.mu.Lock()
	p.total++
	p.mu.Unlock()
	p.track(browser, l)
	return browser, nil
}

// track records the launcher of a newly launched browser in
// p.launchers, so Release can attach it to the browser's idle entry
// and closeEntry can kill the process.
func (p *Pool) track(browser *rod.Browser, l *launcher.Launcher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.launchers[browser] = l
}

// Release returns a browser to the pool, recycling it (closing
// instead of returning to idle) once it has been borrowed MaxUses
// times.
func (p *Pool) Release(browser *rod.Browser) {
	defer func() { <-p.sem }()

	p.mu.Lock()
	l := p.launchers[browser]
	delete(p.launchers, browser)
	p.mu.Unlock()

	e := &entry{browser: browser, launcher: l, lastIdle: time.Now()}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.mu.Unlock()
		p.closeEntry(e)
		p.mu.Lock()
		p.total--
		return
	}

	e.uses++
	if shouldRecycle(e.uses, p.opts.MaxUses) {
		p.total--
		p.mu.Unlock()
		p.closeEntry(e)
		p.mu.Lock()
		return
	}

	p.idle = append(p.idle, e)
}

// Validate reports whether a borrowed or idle browser is still
// usable, by asking it for its current pages.
func (p *Pool) Validate(browser *rod.Browser) bool {
	_, err := browser.Pages()
	return err == nil
}

// ReapIdle closes idle browsers that have sat unused longer than
// IdleTimeout, stopping once only Min remain. Intended to run on a
// ticker from the owning process.
func (p *Pool) ReapIdle() {
	p.mu.Lock()
	cutoff := time.Now().Add(-p.opts.IdleTimeout)
	kept := p.idle[:0]
	var toClose []*entry
	for _, e := range p.idle {
		if shouldReap(e.lastIdle, cutoff, p.total, p.opts.Min) {
			toClose = append(toClose, e)
			p.total--
			continue
		}
		kept = append(kept, e)
	}
	p.idle = kept
	p.mu.Unlock()

	for _, e := range toClose {
		p.closeEntry(e)
	}
}

// Shutdown drains the pool and closes every idle browser.
// It does not forcibly reclaim browsers still checked out; callers
// coordinate that via the worker fleet's own shutdown grace period.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, e := range idle {
		p.closeEntry(e)
	}
}

func (p *Pool) closeEntry(e *entry) {
	_ = e.browser.Close()
	if e.launcher != nil {
		e.launcher.Kill()
	}
}

// launch starts a new headless Chromium instance with the launch
// profile from spec §4.3: headless, GPU/sandbox/throttling/extensions
// disabled, generous old-space headroom.
func launch(ctx context.Context) (*rod.Browser, *launcher.Launcher, error) {
	var l *launcher.Launcher
	if path, has := launcher.LookPath(); has {
		l = launcher.New().Bin(path)
	} else {
		l = launcher.New()
	}

	l = l.Headless(true).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-extensions").
		Set("disable-sync").
		Set("disable-default-apps").
		Set("js-flags", "--max-old-space-size=2048")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, err
	}
	return browser, l, nil
}
