package kleene

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config Settings read from the environment.
type Config struct {
	// Alphabet Comma separated symbols, see ParseAlphabet.
	Alphabet string `env:"KLEENE_ALPHABET, default=a,b"`
	// LogLevel One of debug, info, warn, error.
	LogLevel string `env:"KLEENE_LOG_LEVEL, default=info"`
	// StateSpacing Minimum distance between two states, zero to allow any placement.
	StateSpacing float64 `env:"KLEENE_STATE_SPACING, default=0"`
}

func LoadConfig(ctx context.Context) (*Config, error) {
	c := &Config{}
	if err := envconfig.Process(ctx, c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// Options Returns the automaton options described by the config.
func (c *Config) Options() ([]AutomatonOption, error) {
	alpha, err := ParseAlphabet(c.Alphabet)
	if err != nil {
		return nil, err
	}
	if c.StateSpacing < 0 {
		return nil, fmt.Errorf("negative state spacing %g", c.StateSpacing)
	}
	return []AutomatonOption{
		WithAlphabet(alpha),
		WithStateSpacing(c.StateSpacing),
	}, nil
}
