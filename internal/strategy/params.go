package strategy

import (
	"fmt"

	"github.com/arvindk1/options-strategy-scanner/internal/types"
	"github.com/arvindk1/options-strategy-scanner/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var validate = validator.New()

// DecodeConfig projects the schema-less configuration onto out, a pointer to
// a typed parameter struct using json tags. Keys without a matching field are
// ignored and numeric strings are accepted. The result is checked with its
// validate tags. Any failure is an ErrCodeStrategyConfigError.
func DecodeConfig(config types.StrategyConfig, out any) error {
	if err := decode(map[string]any(config), out); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "invalid configuration for strategy %s", config.ID())
	}

	if err := validate.Struct(out); err != nil {
		return errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "invalid configuration for strategy %s", config.ID())
	}

	return nil
}

// ApplyOverrides returns a copy of base with the scan-time overrides decoded on
// top of it. The caller's base value is never modified.
func ApplyOverrides[T any](base T, overrides map[string]float64) (T, error) {
	out := base
	if len(overrides) == 0 {
		return out, nil
	}

	input := make(map[string]any, len(overrides))
	for k, v := range overrides {
		input[k] = v
	}

	if err := decode(input, &out); err != nil {
		return base, fmt.Errorf("invalid params: %w", err)
	}

	if err := validate.Struct(&out); err != nil {
		return base, fmt.Errorf("invalid params: %w", err)
	}

	return out, nil
}

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
