// Package state provides persistent resolver profiles.
package state

import (
	"errors"
	"fmt"

	"srcpath/internal/pathconv"
)

// CurrentVersion is the profile format version written by this package.
const CurrentVersion = 1

var (
	// ErrInvalidCoding indicates an unknown source coding name
	ErrInvalidCoding = errors.New("invalid source coding")

	// ErrInvalidRule indicates a sourcemap rule with an empty server prefix
	ErrInvalidRule = errors.New("invalid sourcemap rule")

	// ErrUnsupportedVersion indicates a profile written by a newer format
	ErrUnsupportedVersion = errors.New("unsupported profile version")
)

// Rule is one persisted sourcemap rule
type Rule = pathconv.Rule

// Profile is the persisted resolver configuration
type Profile struct {
	// Coding is "ansi" or "utf8"
	Coding string `json:"coding"`

	// ANSIEncoding is the IANA name of the narrow code page
	ANSIEncoding string `json:"ansi_encoding,omitempty"`

	// Sourcemaps in match order
	Sourcemaps []Rule `json:"sourcemaps"`

	// Version for future compatibility
	Version int `json:"version"`
}

// NewProfile returns a profile with default values
func NewProfile() *Profile {
	return &Profile{
		Coding:       pathconv.CodingANSI.String(),
		ANSIEncoding: pathconv.DefaultANSIEncoding,
		Sourcemaps:   []Rule{},
		Version:      CurrentVersion,
	}
}

// Validate checks field values
func (p *Profile) Validate() error {
	if p.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}
	if _, err := pathconv.ParseCoding(p.Coding); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCoding, p.Coding)
	}
	for i, rule := range p.Sourcemaps {
		if rule.Server == "" {
			return fmt.Errorf("%w: rule %d has an empty server prefix", ErrInvalidRule, i)
		}
	}
	return nil
}

// ResolverOptions turns the profile into resolver options
func (p *Profile) ResolverOptions() ([]pathconv.Option, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	coding, _ := pathconv.ParseCoding(p.Coding)
	decoder, err := pathconv.NewTextDecoder(p.ANSIEncoding)
	if err != nil {
		return nil, err
	}
	return []pathconv.Option{
		pathconv.WithCoding(coding),
		pathconv.WithDecoder(decoder),
	}, nil
}

// Apply appends the profile's sourcemap rules to r
func (p *Profile) Apply(r *pathconv.Resolver) {
	for _, rule := range p.Sourcemaps {
		r.AddSourcemap(rule.Server, rule.Client)
	}
}
