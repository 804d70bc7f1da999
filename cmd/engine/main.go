package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"easyapply-engine/internal/answers"
	"easyapply-engine/internal/apply"
	"easyapply-engine/internal/browser"
	"easyapply-engine/internal/config"
	"easyapply-engine/internal/discover"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/emailpin"
	"easyapply-engine/internal/events"
	"easyapply-engine/internal/secrets"
	"easyapply-engine/internal/store"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func main() {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("EASYAPPLY_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	initLogging(dataDir)

	// One engine per data dir; two instances racing the same account and
	// answer bank would be worse than useless.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock %s: %v", lock.Path(), err)
	}
	if !locked {
		log.Fatalf("another engine instance already holds %s", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}

	// Every config problem is surfaced before the browser launches; a fatal
	// misconfiguration half an hour into a run helps no one.
	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !v.OK() {
		log.Fatalf("config invalid:\n%s", v.Error())
	}

	password, err := secrets.GetAccountPassword(cfg.Person.Account.KeyringAccount)
	if err != nil {
		log.Fatalf("credentials: %v (store with: keyring set %s %s)",
			err, secrets.KeyringService, cfg.Person.Account.KeyringAccount)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, dataDir, password); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, dataDir, password string) error {
	db, err := store.Open(filepath.Join(dataDir, "easyapply.db"))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	recorder := &store.Recorder{
		History: store.NewHistory(db.Pool),
		Results: store.ResultsLog{Path: cfg.Output.ResultsFile},
		Sent:    store.SentLog{Path: cfg.Output.SentFile},
	}

	bank := answers.LoadBank(cfg.Output.AnswersFile)
	resolver := answers.NewResolver(cfg.Profile(), bank)
	log.Printf("[engine] answer bank loaded with %d entries", bank.Len())

	b, err := browser.Launch(browser.Options{
		Headless: os.Getenv("HEADLESS") != "false",
	})
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Login(ctx, cfg.Person.Account.Username, password, pinFetcher(cfg)); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	dispatcher := apply.NewDispatcher(resolver.Resolve)
	hub := events.NewHub()

	engine := &discover.Engine{
		Surface:   b,
		Filler:    dispatcher,
		Submitter: apply.NewSubmitter(b, dispatcher),
		Recorder:  recorder,
		Pace:      rate.NewLimiter(rate.Every(2*time.Second), 1),

		Positions:  cfg.Search.Positions,
		Locations:  cfg.Search.Locations,
		Experience: cfg.Search.ExperienceLevels,
		TimeFilter: cfg.Search.TimeFilter,
		PairBudget: time.Duration(cfg.Search.MaxMinutesPerPair) * time.Minute,
		Filter: discover.Filter{
			Companies: cfg.Blacklist.Companies,
			Titles:    cfg.Blacklist.Titles,
		},
		Phone: cfg.Person.SocialMedia.PhoneNumber,
	}
	engine.OnSearch = func(position, location string) {
		hub.Publish(events.SearchStarted(position, location))
	}
	submitted := 0
	engine.OnResult = func(res domain.ApplicationResult) {
		if res.Submitted {
			submitted++
		}
		hub.Publish(events.ApplicationRecorded(res))
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := statusServer(cfg.App.StatusPort, hub, recorder)
	g.Go(func() error { return serveStatus(gctx, srv) })
	g.Go(func() error {
		defer hub.Publish(events.RunFinished(submitted))
		if err := engine.Run(gctx); err != nil && gctx.Err() == nil {
			return err
		}
		log.Printf("[engine] run finished, %d applications submitted", submitted)
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// pinFetcher wires the mailbox into the login flow, nil when email polling
// is disabled.
func pinFetcher(cfg config.Config) browser.PINFetcher {
	if !cfg.Email.Enabled {
		return nil
	}
	return func(ctx context.Context, since time.Time) (string, error) {
		account := cfg.Email.KeyringAccount
		appPw, err := secrets.GetIMAPPassword(account)
		if err != nil {
			return "", err
		}
		addr := fmt.Sprintf("%s:%d", cfg.Email.IMAPHost, cfg.Email.IMAPPort)
		c, err := emailpin.DialAndLogin(ctx, addr, cfg.Email.Username, appPw, nil)
		if err != nil {
			return "", err
		}
		defer emailpin.LogoutAndClose(c)
		return emailpin.WaitForPIN(ctx, c, cfg.Email.Mailbox, since, 2*time.Minute)
	}
}

// initLogging mirrors everything to a run log next to the data so a crashed
// unattended run can be reconstructed.
func initLogging(dataDir string) {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	path := filepath.Join(dataDir, "engine.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("[engine] cannot open %s, logging to stderr only: %v", path, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
}
