// Package snapshot renders a page in headless Chrome and saves it as a PNG.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"callforscience/utils"
)

// Options controls a capture.
type Options struct {
	ChromeBin string
	Width     int64
	Height    int64
	Quality   int
	Timeout   time.Duration
	// Settle is how long to wait after load before capturing.
	Settle time.Duration
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 90
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	return o
}

// Capturer drives a headless browser.
type Capturer struct {
	opts   Options
	logger *utils.Logger
}

// New creates a Capturer with the given options.
func New(opts Options, logger *utils.Logger) *Capturer {
	return &Capturer{opts: opts.withDefaults(), logger: logger}
}

// Capture loads pageURL and writes a full-page screenshot to outPath.
func (c *Capturer) Capture(ctx context.Context, pageURL, outPath string) error {
	chromeBin := c.opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions(chromeBin)...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer cancelTimeout()

	var buf []byte
	if err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(c.opts.Width, c.opts.Height),
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("main", chromedp.ByQuery),
		chromedp.Sleep(c.opts.Settle),
		chromedp.FullScreenshot(&buf, c.opts.Quality),
	); err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", pageURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", outPath, err)
	}

	c.logger.Info("[snapshot] Saved %d bytes to %s", len(buf), outPath)
	return nil
}

func (c *Capturer) allocatorOptions(chromeBin string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(int(c.opts.Width), int(c.opts.Height)),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	return opts
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
