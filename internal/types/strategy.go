package types

import "strings"

// StrategyDescriptor is the declarative metadata of one strategy.
type StrategyDescriptor struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	RiskLevel   string `json:"risk_level,omitempty" yaml:"risk_level,omitempty"`
}

// StrategyConfig is the schema-less configuration handed to a plugin factory.
// It is a superset of the descriptor fields plus strategy specific tunables.
type StrategyConfig map[string]any

const (
	ConfigKeyID            = "id"
	ConfigKeyName          = "name"
	ConfigKeyDescription   = "description"
	ConfigKeyRiskLevel     = "risk_level"
	ConfigKeyEngineVersion = "engine_version"
)

// ID returns the trimmed "id" field, or "" when it is missing or not a string.
func (c StrategyConfig) ID() string {
	return strings.TrimSpace(c.String(ConfigKeyID))
}

// String returns the value under key when it is a string.
func (c StrategyConfig) String(key string) string {
	if c == nil {
		return ""
	}

	s, _ := c[key].(string)

	return s
}

// Descriptor projects the descriptor fields out of the configuration.
func (c StrategyConfig) Descriptor() StrategyDescriptor {
	return StrategyDescriptor{
		ID:          c.ID(),
		Name:        c.String(ConfigKeyName),
		Description: c.String(ConfigKeyDescription),
		RiskLevel:   c.String(ConfigKeyRiskLevel),
	}
}

// Clone returns a deep copy so a plugin can never mutate the stored configuration.
func (c StrategyConfig) Clone() StrategyConfig {
	if c == nil {
		return nil
	}

	out := make(StrategyConfig, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}

		return m
	case StrategyConfig:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}

		return s
	default:
		return v
	}
}
