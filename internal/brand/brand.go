// Package brand holds the facts the assistant is allowed to state about the
// podcast: persona, behaviour rules, links, contact details and pricing.
package brand

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed brand.toml
var defaultBrand []byte

// RuleCount is the number of behaviour rules the system prompt carries.
const RuleCount = 5

type Link struct {
	Platform string `toml:"platform" json:"platform"`
	URL      string `toml:"url" json:"url"`
}

type Contact struct {
	Email string `toml:"email" json:"email"`
	Phone string `toml:"phone" json:"phone"`
}

// Tier is one pricing package shown by the ui-pricing directive.
type Tier struct {
	Name     string   `toml:"name" json:"name"`
	Price    string   `toml:"price" json:"price"`
	Features []string `toml:"features" json:"features"`
}

type Brand struct {
	Name    string   `toml:"name" json:"name"`
	Host    string   `toml:"host" json:"host"`
	Persona string   `toml:"persona" json:"persona"`
	Rules   []string `toml:"rules" json:"rules"`
	Contact Contact  `toml:"contact" json:"contact"`
	Links   []Link   `toml:"links" json:"links"`
	Pricing []Tier   `toml:"pricing" json:"pricing"`
}

// Default returns the brand compiled into the binary.
func Default() (*Brand, error) {
	return parse(defaultBrand)
}

// Load reads a brand file from path. An empty path yields Default.
func Load(path string) (*Brand, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Brand, error) {
	var b Brand
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("parse brand config: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the fields the prompt builder depends on.
func (b *Brand) Validate() error {
	var problems []string
	if strings.TrimSpace(b.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(b.Persona) == "" {
		problems = append(problems, "persona is required")
	}
	if len(b.Rules) != RuleCount {
		problems = append(problems, fmt.Sprintf("exactly %d rules are required, got %d", RuleCount, len(b.Rules)))
	}
	for i, t := range b.Pricing {
		if strings.TrimSpace(t.Name) == "" {
			problems = append(problems, fmt.Sprintf("pricing[%d]: name is required", i))
		}
	}
	if len(problems) > 0 {
		return errors.New("invalid brand config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Tiers returns a copy of the pricing tiers.
func (b *Brand) Tiers() []Tier {
	out := make([]Tier, len(b.Pricing))
	for i, t := range b.Pricing {
		t.Features = append([]string(nil), t.Features...)
		out[i] = t
	}
	return out
}
