package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnsureUserConfig makes sure <dataDir>/config.yml exists, seeding it from
// defaultPath, or from a generated template when no default ships alongside
// the binary. Returns the path the engine should load.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if werr := writeTemplate(userPath); werr != nil {
				return "", werr
			}
			return userPath, nil
		}
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// writeTemplate drops a starter config so a first run fails with "fill this
// in" validation errors instead of a missing-file error.
func writeTemplate(path string) error {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.App.StatusPort = 38471
	cfg.Search.Positions = []string{"Software Engineer"}
	cfg.Search.Locations = []string{"Remote"}
	cfg.Search.TimeFilter = 1
	cfg.Search.MaxMinutesPerPair = 20
	cfg.Output.ResultsFile = "output.csv"
	cfg.Output.SentFile = "applications_sent.csv"
	cfg.Output.AnswersFile = "qa.csv"
	cfg.Email.Mailbox = "INBOX"

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
