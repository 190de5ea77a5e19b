package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// BrowserFetcher renders pages in headless Chrome and returns the resulting HTML.
// Every Get opens a tab in one shared browser process.
type BrowserFetcher struct {
	settle  time.Duration
	timeout time.Duration
	log     *zap.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	once    sync.Once
	initErr error
}

// NewBrowserFetcher prepares a headless Chrome allocator. chromePath may be empty
// to use the Chrome found on PATH. The browser starts on the first Get.
func NewBrowserFetcher(chromePath string, log *zap.Logger) *BrowserFetcher {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	opts = append(opts,
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(DefaultUserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if log == nil {
		log = zap.NewNop()
	}
	return &BrowserFetcher{
		settle:        500 * time.Millisecond,
		timeout:       DefaultTimeout,
		log:           log,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}
}

// Get navigates to url and returns the rendered document.
func (b *BrowserFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	b.once.Do(func() {
		// Running with no actions starts the browser.
		b.initErr = chromedp.Run(b.browserCtx)
	})
	if b.initErr != nil {
		return nil, &Error{URL: url, Message: "starting browser", Cause: b.initErr}
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, b.timeout)
	defer timeoutCancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &Error{URL: url, Message: "rendering page", Cause: err}
	}
	b.log.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return []byte(html), nil
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}
