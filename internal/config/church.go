package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChurchProfile is the congregation identity shown on the card and in emails.
type ChurchProfile struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
	LogoURL string `yaml:"logo_url,omitempty" json:"logoUrl,omitempty"`
}

// DefaultChurchProfile returns the built-in profile.
func DefaultChurchProfile() ChurchProfile {
	return ChurchProfile{
		Name:    "Grace Community Church",
		Address: "123 Faith Boulevard, Springfield, IL 62704",
		LogoURL: "https://picsum.photos/seed/churchlogo/100/100",
	}
}

// LoadChurchProfile reads a YAML profile from path. An empty path yields the
// default profile; fields missing from the file keep their defaults.
func LoadChurchProfile(path string) (ChurchProfile, error) {
	profile := DefaultChurchProfile()
	if strings.TrimSpace(path) == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("config: read church profile: %w", err)
	}

	var fromFile ChurchProfile
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return profile, fmt.Errorf("config: parse church profile: %w", err)
	}

	if v := strings.TrimSpace(fromFile.Name); v != "" {
		profile.Name = v
	}
	if v := strings.TrimSpace(fromFile.Address); v != "" {
		profile.Address = v
	}
	if v := strings.TrimSpace(fromFile.LogoURL); v != "" {
		profile.LogoURL = v
	}
	return profile, nil
}
