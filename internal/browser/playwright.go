// Package browser is the playwright implementation of the apply.Surface
// contract. Everything LinkedIn-DOM-specific lives here; the decision
// engine upstream never sees a selector.
package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"easyapply-engine/internal/apply"

	"github.com/playwright-community/playwright-go"
)

// Options configures the launched browser.
type Options struct {
	Headless bool
	// ActionTimeout bounds individual clicks and fills. Defaults to 10s.
	ActionTimeout time.Duration
}

// Browser drives one logged-in page. It implements apply.Surface and
// discover.CardDismisser.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	timeout float64 // milliseconds, playwright convention
}

// Launch starts playwright, launches chromium and opens a fresh page.
func Launch(opts Options) (*Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 1024},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	timeout := opts.ActionTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Browser{
		pw:      pw,
		browser: b,
		page:    page,
		timeout: float64(timeout.Milliseconds()),
	}, nil
}

func (b *Browser) Close() {
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			log.Printf("[browser] close: %v", err)
		}
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			log.Printf("[browser] stop playwright: %v", err)
		}
	}
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// LoadPage scrolls to the bottom and back so lazily rendered content,
// job cards especially, materializes in the DOM.
func (b *Browser) LoadPage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return err
	}
	b.page.WaitForTimeout(500)
	if _, err := b.page.Evaluate(`window.scrollTo(0, 0)`); err != nil {
		return err
	}
	b.page.WaitForTimeout(500)
	return nil
}

func (b *Browser) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.page.Title()
}

func (b *Browser) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.page.Content()
}

func (b *Browser) Present(ctx context.Context, a apply.Action) bool {
	if ctx.Err() != nil {
		return false
	}
	sel, ok := actionSelectors[a]
	if !ok {
		return false
	}
	n, err := b.page.Locator(sel).Count()
	return err == nil && n > 0
}

// Click activates every control matching the action. It succeeds when at
// least one click landed.
func (b *Browser) Click(ctx context.Context, a apply.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sel, ok := actionSelectors[a]
	if !ok {
		return apply.ErrNotFound
	}

	locs, err := b.page.Locator(sel).All()
	if err != nil {
		return translateErr(err)
	}
	if len(locs) == 0 {
		return apply.ErrNotFound
	}

	var lastErr error
	clicked := 0
	for _, l := range locs {
		if err := l.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(b.timeout),
		}); err != nil {
			lastErr = translateErr(err)
			continue
		}
		clicked++
	}
	if clicked == 0 {
		return lastErr
	}
	return nil
}

func (b *Browser) HasValidationError(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	n, err := b.page.Locator(validationErrorSelector).Count()
	return err == nil && n > 0
}

func (b *Browser) Fields(ctx context.Context) ([]apply.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locs, err := b.page.Locator(fieldGroupingSelector).All()
	if err != nil {
		return nil, translateErr(err)
	}
	fields := make([]apply.Field, len(locs))
	for i, l := range locs {
		fields[i] = &field{page: b.page, loc: l, timeout: b.timeout}
	}
	return fields, nil
}

// DismissCard clicks the dismiss control on an already-applied result card.
func (b *Browser) DismissCard(ctx context.Context, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc := b.page.Locator(fmt.Sprintf(dismissCardSelector, jobID)).First()
	return translateErr(loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(b.timeout),
	}))
}

// translateErr maps driver failures onto the apply package's sentinels so
// the decision engine can branch without knowing playwright.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not attached") || strings.Contains(msg, "detached") {
		return fmt.Errorf("%w: %v", apply.ErrStale, err)
	}
	if strings.Contains(msg, "no element") || strings.Contains(msg, "not found") {
		return fmt.Errorf("%w: %v", apply.ErrNotFound, err)
	}
	return err
}
