package maincmd

import "github.com/caarlos0/env/v6"

// Config holds runtime settings sourced from the environment rather than
// CLI flags: per-invocation behavior (which phase to run, which file) is a
// flag, ambient tuning of the VM is an env var, the same split the teacher
// draws between mainer-parsed flags and everything else.
type Config struct {
	// Debug mirrors ZERO_DEBUG=1 from spec.md §6: print a disassembly of
	// the compiled chunk before executing it.
	Debug bool `env:"ZERO_DEBUG" envDefault:"false"`

	// MaxStack and MaxSteps bound the VM's operand stack height and
	// dispatched-instruction count; zero means the VM's own defaults.
	MaxStack int `env:"ZERO_MAX_STACK" envDefault:"0"`
	MaxSteps int `env:"ZERO_MAX_STEPS" envDefault:"0"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
