// Package emailpin fetches the security verification code LinkedIn mails
// out when a login looks unfamiliar, so the sign-in flow can complete
// unattended.
package emailpin

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// pinRe matches the 6-digit code LinkedIn puts in the subject line
// ("Here's your verification code: 123456") and in the body.
var pinRe = regexp.MustCompile(`\b(\d{6})\b`)

const senderHint = "linkedin"

// DialAndLogin connects over TLS and logs in.
func DialAndLogin(ctx context.Context, addr, username, password string, tlsCfg *tls.Config) (*imapclient.Client, error) {
	if addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: tlsCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Best-effort close on context cancel.
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(username, password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}

	return c, nil
}

// FetchPIN polls the mailbox for a fresh verification code. Only unseen
// messages that arrived after `since` and look like they came from the site
// are considered; the newest match wins. Returns "" with nil error when no
// code has arrived yet.
func FetchPIN(ctx context.Context, c *imapclient.Client, mailbox string, since time.Time) (string, error) {
	if c == nil {
		return "", errors.New("imap client is nil")
	}
	if mailbox == "" {
		mailbox = "INBOX"
	}

	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return "", fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return "", fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return "", nil
	}

	// Newest first.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}

	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:      true,
		Envelope: true,
	})
	defer func() { _ = fetchCmd.Close() }()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return "", fmt.Errorf("imap fetch collect: %w", err)
		}
		if buf.Envelope == nil {
			continue
		}

		if !fromSender(buf.Envelope.From, senderHint) {
			continue
		}
		if pin := ExtractPIN(buf.Envelope.Subject); pin != "" {
			markSeen(c, buf.UID)
			return pin, nil
		}
	}

	return "", nil
}

// WaitForPIN retries FetchPIN until a code arrives or the deadline passes.
func WaitForPIN(ctx context.Context, c *imapclient.Client, mailbox string, since time.Time, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		pin, err := FetchPIN(ctx, c, mailbox, since)
		if err != nil {
			return "", err
		}
		if pin != "" {
			return pin, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	return "", errors.New("verification code did not arrive in time")
}

// ExtractPIN pulls a 6-digit code out of free text, "" when there is none.
func ExtractPIN(text string) string {
	if m := pinRe.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	return ""
}

func fromSender(addrs []imap.Address, hint string) bool {
	for i := range addrs {
		a := &addrs[i]
		if strings.Contains(strings.ToLower(a.Addr()), hint) ||
			strings.Contains(strings.ToLower(a.Name), hint) {
			return true
		}
	}
	return false
}

func markSeen(c *imapclient.Client, uid imap.UID) {
	storeFlags := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}
	if err := c.Store(imap.UIDSetNum(uid), storeFlags, nil).Close(); err != nil {
		log.Printf("[emailpin] mark seen: %v", err)
	}
}

// LogoutAndClose logs out then closes the connection.
func LogoutAndClose(c *imapclient.Client) {
	if c == nil {
		return
	}
	if err := c.Logout().Wait(); err != nil {
		log.Printf("[emailpin] logout: %v", err)
	}
	_ = c.Close()
}
