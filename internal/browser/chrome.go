package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"debarment_service/internal/config"
)

type ChromeLauncher struct {
	cfg config.Browser
	log *slog.Logger
}

func NewChromeLauncher(cfg config.Browser, log *slog.Logger) *ChromeLauncher {
	return &ChromeLauncher{cfg: cfg, log: log}
}

// Launch starts a fresh Chrome with its own profile, data and cache
// directories. Nothing is shared with other invocations.
func (l *ChromeLauncher) Launch(ctx context.Context) (Page, error) {
	const op = "browser.Launch"

	prof, err := newProfile(l.cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(l.cfg, prof)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	page := &chromePage{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		prof:        prof,
	}

	// the first Run starts the browser; it must not carry a timeout or the
	// whole browser dies with it
	if err := chromedp.Run(tabCtx); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l.log.Debug("browser started", slog.String("op", op), slog.String("profile", prof.root))

	return page, nil
}

func allocatorOptions(cfg config.Browser, prof *profile) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-dev-tools", true),
		chromedp.Flag("no-zygote", true),
		chromedp.Flag("single-process", true),
		chromedp.UserDataDir(prof.userData),
		chromedp.Flag("data-path", prof.dataPath),
		chromedp.Flag("disk-cache-dir", prof.diskCache),
	)

	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	return opts
}

type chromePage struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	prof        *profile

	closeOnce sync.Once
	closeErr  error
}

func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	const op = "browser.Navigate"

	if err := p.run(ctx, timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *chromePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	const op = "browser.WaitForSelector"

	if err := p.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *chromePage) Content(ctx context.Context) (string, error) {
	const op = "browser.Content"

	var html string
	if err := p.run(ctx, contentTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return html, nil
}

const contentTimeout = 10 * time.Second

func (p *chromePage) Close() error {
	p.closeOnce.Do(func() {
		p.cancelTab()
		p.cancelAlloc()
		p.closeErr = p.prof.remove()
	})
	return p.closeErr
}

// profile is the set of per-launch directories Chrome writes to.
type profile struct {
	root      string
	userData  string
	dataPath  string
	diskCache string
}

func newProfile(base string) (*profile, error) {
	if base == "" {
		base = os.TempDir()
	}

	root := filepath.Join(base, "chrome-"+uuid.NewString())
	prof := &profile{
		root:      root,
		userData:  filepath.Join(root, "user-data"),
		dataPath:  filepath.Join(root, "data-path"),
		diskCache: filepath.Join(root, "disk-cache"),
	}

	for _, dir := range []string{prof.userData, prof.dataPath, prof.diskCache} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Join(err, os.RemoveAll(root))
		}
	}

	return prof, nil
}

func (p *profile) remove() error {
	return os.RemoveAll(p.root)
}
