package config

import (
	"os"

	"easyapply-engine/internal/domain"

	"gopkg.in/yaml.v3"
)

type Name struct {
	First string `yaml:"first"`
	Last  string `yaml:"last"`
}

type Address struct {
	Street string `yaml:"street"`
	City   string `yaml:"city"`
	State  string `yaml:"state"`
	Zip    string `yaml:"zip"`
}

type SocialMedia struct {
	GitHub      string `yaml:"github"`
	LinkedIn    string `yaml:"linkedin"`
	Portfolio   string `yaml:"portfolio"`
	PhoneNumber string `yaml:"phone_number"`
}

type Demographics struct {
	Gender     string `yaml:"gender"`
	Race       string `yaml:"race"`
	Disability string `yaml:"disability"`
	Veteran    string `yaml:"veteran"`
	LGBTQ      string `yaml:"lgbtq"`
}

type Account struct {
	Username string `yaml:"username"`
	// KeyringAccount names the OS keychain entry holding the password.
	// Defaults to the username when empty.
	KeyringAccount string `yaml:"keyring_account"`
}

type Person struct {
	Name         Name         `yaml:"name"`
	Address      Address      `yaml:"address"`
	SocialMedia  SocialMedia  `yaml:"social_media"`
	Demographics Demographics `yaml:"demographics"`
	Account      Account      `yaml:"account"`
}

type Config struct {
	App struct {
		DataDir    string `yaml:"data_dir"`
		StatusPort int    `yaml:"status_port"`
	} `yaml:"app"`

	Search struct {
		Positions []string `yaml:"positions"`
		Locations []string `yaml:"locations"`
		// LinkedIn f_E codes, 1 (entry) .. 6 (internship).
		ExperienceLevels []int `yaml:"experience_levels"`
		// 0 any, 1 last 24h, 2 past week, 3 past month.
		TimeFilter        int `yaml:"time_filter"`
		MaxMinutesPerPair int `yaml:"max_minutes_per_pair"`
	} `yaml:"search"`

	Person     Person `yaml:"person"`
	Salary     string `yaml:"salary"`
	HourlyRate string `yaml:"hourly_rate"`

	Blacklist struct {
		Companies []string `yaml:"companies"`
		Titles    []string `yaml:"titles"`
	} `yaml:"blacklist"`

	Uploads struct {
		Resume      string `yaml:"resume"`
		CoverLetter string `yaml:"cover_letter"`
	} `yaml:"uploads"`

	Output struct {
		ResultsFile string `yaml:"results_file"`
		SentFile    string `yaml:"sent_file"`
		AnswersFile string `yaml:"answers_file"`
	} `yaml:"output"`

	// Mailbox polled for sign-in verification codes during login challenges.
	Email struct {
		Enabled        bool   `yaml:"enabled"`
		IMAPHost       string `yaml:"imap_host"`
		IMAPPort       int    `yaml:"imap_port"`
		Username       string `yaml:"username"`
		Mailbox        string `yaml:"mailbox"`
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"email"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Profile flattens the person section plus compensation into the read-only
// record the answer resolver works from.
func (c Config) Profile() domain.Profile {
	p := c.Person
	return domain.Profile{
		FirstName:  p.Name.First,
		LastName:   p.Name.Last,
		Street:     p.Address.Street,
		City:       p.Address.City,
		State:      p.Address.State,
		Zip:        p.Address.Zip,
		GitHub:     p.SocialMedia.GitHub,
		LinkedIn:   p.SocialMedia.LinkedIn,
		Portfolio:  p.SocialMedia.Portfolio,
		Phone:      p.SocialMedia.PhoneNumber,
		Gender:     p.Demographics.Gender,
		Race:       p.Demographics.Race,
		Disability: p.Demographics.Disability,
		Veteran:    p.Demographics.Veteran,
		LGBTQ:      p.Demographics.LGBTQ,
		Salary:     c.Salary,
		HourlyRate: c.HourlyRate,
	}
}
