package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PINFetcher retrieves the emailed verification code once the site asks for
// one. since is when the login attempt started; older mail is ignored.
type PINFetcher func(ctx context.Context, since time.Time) (string, error)

// Login signs into the site. When the login trips a verification-code
// challenge and a fetcher is wired, the code is pulled from the mailbox and
// entered; without a fetcher the challenge is fatal.
func (b *Browser) Login(ctx context.Context, username, password string, fetchPIN PINFetcher) error {
	log.Printf("[browser] logging in as %s", username)
	started := time.Now()

	if err := b.Navigate(ctx, loginURL); err != nil {
		return err
	}
	b.page.WaitForTimeout(3000)

	if err := b.page.Locator(usernameSelector).Fill(username, playwright.LocatorFillOptions{
		Timeout: playwright.Float(b.timeout),
	}); err != nil {
		return fmt.Errorf("username field: %w", err)
	}
	if err := b.page.Locator(passwordSelector).Fill(password, playwright.LocatorFillOptions{
		Timeout: playwright.Float(b.timeout),
	}); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	if err := b.page.Locator(signInSelector).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(b.timeout),
	}); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	b.page.WaitForTimeout(5000)

	if n, _ := b.page.Locator(securityCheckHeading).Count(); n > 0 {
		return errors.New("login hit an interactive security check; complete it once manually and retry")
	}

	if n, _ := b.page.Locator(pinInputSelector).Count(); n > 0 {
		if fetchPIN == nil {
			return errors.New("login requires an email verification code but no mailbox is configured")
		}
		if err := b.enterPIN(ctx, started, fetchPIN); err != nil {
			return err
		}
	}

	return b.verifyLoggedIn(ctx)
}

func (b *Browser) enterPIN(ctx context.Context, since time.Time, fetchPIN PINFetcher) error {
	log.Printf("[browser] verification code requested, checking mailbox")

	pin, err := fetchPIN(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch verification code: %w", err)
	}

	if err := b.page.Locator(pinInputSelector).Fill(pin, playwright.LocatorFillOptions{
		Timeout: playwright.Float(b.timeout),
	}); err != nil {
		return fmt.Errorf("code field: %w", err)
	}
	if err := b.page.Locator(pinSubmitSelector).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(b.timeout),
	}); err != nil {
		return fmt.Errorf("code submit: %w", err)
	}
	b.page.WaitForTimeout(5000)
	return nil
}

func (b *Browser) verifyLoggedIn(ctx context.Context) error {
	if err := b.Navigate(ctx, feedURL); err != nil {
		return err
	}
	b.page.WaitForTimeout(2000)
	if !strings.Contains(b.page.URL(), "/feed") {
		return fmt.Errorf("login did not reach the feed, landed on %s", b.page.URL())
	}
	log.Printf("[browser] logged in")
	return nil
}
