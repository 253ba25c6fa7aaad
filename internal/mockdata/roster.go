package mockdata

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"arena/internal/models"
)

//go:embed roster.yaml
var defaultRosterYAML []byte

// CurveParams - параметры случайного блуждания кривой капитала модели.
// Шаг = (u - Bias) * Volatility, u ∈ [0, 1).
type CurveParams struct {
	Bias       float64 `yaml:"bias"`
	Volatility float64 `yaml:"volatility"`
}

// DefaultCurve используется для моделей без явных параметров кривой
var DefaultCurve = CurveParams{Bias: 0.5, Volatility: 1000}

// BitcoinCurve - параметры базовой линии (меньшая волатильность)
var BitcoinCurve = CurveParams{Bias: 0.5, Volatility: 400}

// RosterModel - модель вместе с параметрами генерации кривой
type RosterModel struct {
	models.AIModel `yaml:",inline"`
	Curve          *CurveParams `yaml:"curve,omitempty"`
}

// Roster - стартовый состав арены
type Roster struct {
	Agents []models.Agent       `yaml:"agents"`
	Models []RosterModel        `yaml:"models"`
	Market []models.MarketPrice `yaml:"market"`
}

// ParseRoster разбирает YAML с составом и проверяет уникальность ID
func ParseRoster(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRoster читает состав из файла
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	return ParseRoster(data)
}

// DefaultRoster возвращает встроенный состав
func DefaultRoster() *Roster {
	r, err := ParseRoster(defaultRosterYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded roster is invalid: %v", err))
	}
	return r
}

func (r *Roster) validate() error {
	seen := make(map[string]struct{}, len(r.Models))
	for _, m := range r.Models {
		if m.ID == "" {
			return fmt.Errorf("roster model without id")
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(r.Agents))
	for _, a := range r.Agents {
		if a.ID == "" {
			return fmt.Errorf("roster agent without id")
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("duplicate agent id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
	}

	for _, p := range r.Market {
		if p.Price <= 0 {
			return fmt.Errorf("market price for %s must be positive", p.Symbol)
		}
	}
	return nil
}

// AIModels возвращает модели состава без параметров кривой
func (r *Roster) AIModels() []models.AIModel {
	out := make([]models.AIModel, len(r.Models))
	for i, m := range r.Models {
		out[i] = m.AIModel
	}
	return out
}

// ModelIDs возвращает ID моделей в порядке состава
func (r *Roster) ModelIDs() []string {
	ids := make([]string, len(r.Models))
	for i, m := range r.Models {
		ids[i] = m.ID
	}
	return ids
}

// AgentIDs возвращает ID агентов в порядке состава
func (r *Roster) AgentIDs() []string {
	ids := make([]string, len(r.Agents))
	for i, a := range r.Agents {
		ids[i] = a.ID
	}
	return ids
}

// Curves возвращает параметры кривой по ID модели
func (r *Roster) Curves() map[string]CurveParams {
	curves := make(map[string]CurveParams, len(r.Models))
	for _, m := range r.Models {
		if m.Curve != nil {
			curves[m.ID] = *m.Curve
		} else {
			curves[m.ID] = DefaultCurve
		}
	}
	return curves
}

// DefaultAgents возвращает стартовых агентов
func DefaultAgents() []models.Agent {
	return DefaultRoster().Agents
}

// DefaultModels возвращает стартовые модели
func DefaultModels() []models.AIModel {
	return DefaultRoster().AIModels()
}

// DefaultMarketPrices возвращает стартовые цены
func DefaultMarketPrices() []models.MarketPrice {
	return DefaultRoster().Market
}
