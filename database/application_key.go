package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	validApplicationKey = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	nonKeyRunes         = regexp.MustCompile(`[^a-z0-9]+`)
)

// ApplicationKey Stable identifier for one job posting, derived from company and title.
// The same posting found on different boards maps to the same key, which is what
// makes deduplication and the one-session-per-key rule work.
type ApplicationKey string

// MakeApplicationKey Derives the key from company and title: lowercased, any run of
// non-alphanumeric characters collapsed into a single dash.
func MakeApplicationKey(company, title string) ApplicationKey {
	raw := strings.ToLower(company + " " + title)
	slug := nonKeyRunes.ReplaceAllString(raw, "-")
	slug = strings.Trim(slug, "-")
	return ApplicationKey(slug)
}

// Scan Restores the key type from the database.
func (key *ApplicationKey) Scan(src any) error {
	keyString, ok := src.(string)
	if !ok {
		return errors.New("src value cannot cast to string")
	}
	*key = ApplicationKey(keyString)
	return nil
}

// Value Stores the key in the database.
func (key *ApplicationKey) Value() (driver.Value, error) {
	if key == nil {
		return nil, nil
	}

	if err := key.IsValid(); err != nil {
		return nil, err
	}

	return key.String(), nil
}

func (key *ApplicationKey) IsValid() error {
	if key == nil {
		return errors.New("application key is nil")
	}
	if !validApplicationKey.MatchString(key.String()) {
		return fmt.Errorf("invalid application key '%s'", key.String())
	}
	return nil
}

func (key ApplicationKey) String() string {
	return string(key)
}
