// Package content loads the static display tables (tiers, rewards, tips,
// predictions and so on) the views render. The tables are configuration,
// not logic: a default catalog is embedded and a file can replace it.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mitra-credit/shared"
)

//go:embed default.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid content catalog")

// Catalog holds every display table.
type Catalog struct {
	Tiers     []Tier         `yaml:"tiers" json:"tiers"`
	Rewards   []Reward       `yaml:"rewards" json:"rewards"`
	Journey   []JourneyStage `yaml:"journey" json:"journey"`
	Coach     Coach          `yaml:"coach" json:"coach"`
	Insights  Insights       `yaml:"insights" json:"insights"`
	Providers []Provider     `yaml:"providers" json:"providers"`
	Dashboard Dashboard      `yaml:"dashboard" json:"dashboard"`
	Nav       []NavItem      `yaml:"nav" json:"nav"`
	Analytics Analytics      `yaml:"analytics" json:"analytics"`
}

// Tier is a gamification rank unlocked at MinCoins.
type Tier struct {
	Name     string `yaml:"name" json:"name"`
	MinCoins int    `yaml:"min_coins" json:"minCoins"`
}

// Reward is a catalogue item priced in MitraCoins.
type Reward struct {
	Name  string `yaml:"name" json:"name"`
	Cost  int    `yaml:"cost" json:"cost"`
	Value string `yaml:"value" json:"value"`
}

// JourneyStage is a credit journey milestone reached at MinScore.
type JourneyStage struct {
	Name     string `yaml:"name" json:"name"`
	MinScore int    `yaml:"min_score" json:"minScore"`
}

// Coach holds the credit coach tables.
type Coach struct {
	ScoreLabel string   `yaml:"score_label" json:"scoreLabel"`
	Breakdown  []Factor `yaml:"breakdown" json:"breakdown"`
	Tips       []Tip    `yaml:"tips" json:"tips"`
}

// Factor is one line of the score breakdown.
type Factor struct {
	Label  string `yaml:"label" json:"label"`
	Score  int    `yaml:"score" json:"score"`
	Weight string `yaml:"weight" json:"weight"`
}

// Tip is a personalised credit tip.
type Tip struct {
	Title       string `yaml:"title" json:"title"`
	Impact      string `yaml:"impact" json:"impact"`
	Description string `yaml:"description" json:"description"`
	Completed   bool   `yaml:"completed" json:"completed"`
}

// Insights holds the growth insight tables.
type Insights struct {
	Predictions []Prediction `yaml:"predictions" json:"predictions"`
	Items       []Insight    `yaml:"items" json:"items"`
}

// Prediction is a forecast card.
type Prediction struct {
	Title  string `yaml:"title" json:"title"`
	Value  string `yaml:"value" json:"value"`
	Change string `yaml:"change" json:"change"`
	Period string `yaml:"period" json:"period"`
}

// Insight is a recommendation card. The highlighted one is wired to the
// limit increase edge.
type Insight struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Action      string `yaml:"action" json:"action"`
	Highlight   bool   `yaml:"highlight" json:"highlight"`
}

// Provider is a data source offered on the connect-data screen.
type Provider struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Boost       string `yaml:"boost" json:"boost"`
}

// Dashboard holds the dashboard tables.
type Dashboard struct {
	DataStrengthPct  int           `yaml:"data_strength_pct" json:"dataStrengthPct"`
	DataStrengthHint string        `yaml:"data_strength_hint" json:"dataStrengthHint"`
	HealthTiles      []Tile        `yaml:"health_tiles" json:"healthTiles"`
	QuickActions     []QuickAction `yaml:"quick_actions" json:"quickActions"`
}

// Tile is a dashboard health tile.
type Tile struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// QuickAction is a dashboard shortcut to another screen.
type QuickAction struct {
	Label  string        `yaml:"label" json:"label"`
	Screen shared.Screen `yaml:"screen" json:"screen"`
}

// NavItem is one bottom tab.
type NavItem struct {
	Screen shared.Screen `yaml:"screen" json:"screen"`
	Label  string        `yaml:"label" json:"label"`
}

// Analytics holds the business analytics series.
type Analytics struct {
	Revenue  []Point `yaml:"revenue" json:"revenue"`
	Expenses []Point `yaml:"expenses" json:"expenses"`
}

// Point is one labelled value of a series, in rupees.
type Point struct {
	Label string `yaml:"label" json:"label"`
	Value int64  `yaml:"value" json:"value"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the invariants the views rely on.
func (c *Catalog) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidCatalog)
	}
	if c.Tiers[0].MinCoins != 0 {
		return fmt.Errorf("%w: first tier %q must start at 0 coins", ErrInvalidCatalog, c.Tiers[0].Name)
	}
	for i := 1; i < len(c.Tiers); i++ {
		if c.Tiers[i].MinCoins <= c.Tiers[i-1].MinCoins {
			return fmt.Errorf("%w: tier %q is not above %q", ErrInvalidCatalog, c.Tiers[i].Name, c.Tiers[i-1].Name)
		}
	}
	for i := 1; i < len(c.Journey); i++ {
		if c.Journey[i].MinScore <= c.Journey[i-1].MinScore {
			return fmt.Errorf("%w: journey stage %q is not above %q", ErrInvalidCatalog, c.Journey[i].Name, c.Journey[i-1].Name)
		}
	}
	for _, item := range c.Nav {
		if !item.Screen.Valid() {
			return fmt.Errorf("%w: nav item %q points at unknown screen %q", ErrInvalidCatalog, item.Label, item.Screen)
		}
	}
	for _, qa := range c.Dashboard.QuickActions {
		if !qa.Screen.Valid() {
			return fmt.Errorf("%w: quick action %q points at unknown screen %q", ErrInvalidCatalog, qa.Label, qa.Screen)
		}
	}
	seen := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.ID == "" {
			return fmt.Errorf("%w: provider %q has no id", ErrInvalidCatalog, p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate provider id %q", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// ProviderIDs lists the ids of the connectable data sources.
func (c *Catalog) ProviderIDs() []string {
	ids := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		ids = append(ids, p.ID)
	}
	return ids
}
