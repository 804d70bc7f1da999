package config

import (
	"fmt"
	"os"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Error() string {
	return "config validation failed:\n- " + strings.Join(v.Errors, "\n- ")
}

// NormalizeAndValidate returns a normalized copy plus everything wrong with
// it. Errors are fatal and must surface before any browser session opens.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.Positions = trimList(out.Search.Positions)
	out.Search.Locations = trimList(out.Search.Locations)
	out.Blacklist.Companies = trimList(out.Blacklist.Companies)
	out.Blacklist.Titles = trimList(out.Blacklist.Titles)

	if out.App.DataDir == "" {
		out.App.DataDir = "."
	}
	if out.Search.MaxMinutesPerPair <= 0 {
		out.Search.MaxMinutesPerPair = 20
	}
	if out.Output.ResultsFile == "" {
		out.Output.ResultsFile = "output.csv"
	}
	if out.Output.SentFile == "" {
		out.Output.SentFile = "applications_sent.csv"
	}
	if out.Output.AnswersFile == "" {
		out.Output.AnswersFile = "qa.csv"
	}
	if out.Person.Account.KeyringAccount == "" {
		out.Person.Account.KeyringAccount = out.Person.Account.Username
	}
	if out.Email.Mailbox == "" {
		out.Email.Mailbox = "INBOX"
	}
	if out.Email.IMAPPort == 0 {
		out.Email.IMAPPort = 993
	}
	if out.App.StatusPort == 0 {
		out.App.StatusPort = 38471
	}

	// ---- Validation rules ----

	if len(out.Search.Positions) == 0 {
		res.addErr("search.positions must list at least one position")
	}
	if len(out.Search.Locations) == 0 {
		res.addErr("search.locations must list at least one location")
	}
	if out.Search.TimeFilter < 0 || out.Search.TimeFilter > 3 {
		res.addErr("search.time_filter must be 0 (any), 1 (24h), 2 (week) or 3 (month)")
	}
	for _, lvl := range out.Search.ExperienceLevels {
		if lvl < 1 || lvl > 6 {
			res.addErr("search.experience_levels entries must be 1..6, got %d", lvl)
		}
	}

	if strings.TrimSpace(out.Person.Account.Username) == "" {
		res.addErr("person.account.username is required")
	}
	if strings.TrimSpace(out.Person.SocialMedia.PhoneNumber) == "" {
		res.addErr("person.social_media.phone_number is required")
	}
	if strings.TrimSpace(out.Person.Name.First) == "" || strings.TrimSpace(out.Person.Name.Last) == "" {
		res.addErr("person.name.first and person.name.last are required")
	}
	if strings.TrimSpace(out.Salary) == "" {
		res.addWarn("salary is empty; compensation questions will fall back to the placeholder answer")
	}
	if strings.TrimSpace(out.HourlyRate) == "" {
		res.addWarn("hourly_rate is empty; hourly-rate questions will fall back to the placeholder answer")
	}

	// Upload paths are fatal when set but missing: a half-attached resume is
	// worse than no automation at all.
	for name, p := range map[string]string{
		"uploads.resume":       out.Uploads.Resume,
		"uploads.cover_letter": out.Uploads.CoverLetter,
	} {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			res.addErr("%s: file not found: %s", name, p)
		}
	}

	if len(out.Blacklist.Companies) == 0 && len(out.Blacklist.Titles) == 0 {
		res.addWarn("no blacklist configured; every discovered card will be attempted")
	}

	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if out.Email.KeyringAccount == "" {
			out.Email.KeyringAccount = out.Email.Username
		}
	}

	if out.App.StatusPort < 1 || out.App.StatusPort > 65535 {
		res.addErr("app.status_port must be 1..65535")
	}

	return out, res
}
