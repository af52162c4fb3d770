package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fishwrap/bots"
	"fishwrap/engine"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FISHWRAP"

var (
	ErrInvalidNodes   = errors.New("invalid node count")
	ErrMissingPolicy  = errors.New("no policy given")
	ErrInvalidWorkers = errors.New("worker count must be at least 1")
)

type Config struct {
	Policy          string        `mapstructure:"policy"`
	LogFile         string        `mapstructure:"log-file"`
	LogLevel        string        `mapstructure:"log-level"`
	Nodes           string        `mapstructure:"nodes"`
	Engine          string        `mapstructure:"engine"`
	ScovillePercent float64       `mapstructure:"scoville-percent"`
	Workers         int           `mapstructure:"workers"`
	Grace           time.Duration `mapstructure:"grace"`

	// Resolved from the raw fields by Load.
	Kind       bots.Kind     `mapstructure:"-"`
	NodeBudget uint64        `mapstructure:"-"`
	Level      zerolog.Level `mapstructure:"-"`
}

func DefaultLogFile() string {
	return filepath.Join(os.TempDir(), "fishwrap.log")
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("fishwrap", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringP("log-file", "L", DefaultLogFile(), "log file to write to")
	fs.String("log-level", zerolog.LevelDebugValue, "minimum level written to the log file")
	fs.StringP("nodes", "N", "unlimited", `nodes for the engine to search per position ("-" or "unlimited" for no limit)`)
	fs.StringP("engine", "E", "stockfish", "path of the UCI engine binary")
	fs.Float64P("scoville-percent", "P", 50, "how often the scoville policy plays the best move, in percent")
	fs.IntP("workers", "W", 1, "number of engine processes evaluating moves in parallel")
	fs.Duration("grace", engine.DefaultGracePeriod, "how long an engine may take to exit after quit before it is killed")
	return fs
}

// Load reads the configuration from args (without the program name) and
// FISHWRAP_* environment variables. Flags take precedence over the
// environment. pflag.ErrHelp is returned as-is for -h/--help.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if err := v.BindEnv("policy"); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		v.Set("policy", fs.Arg(0))
	default:
		return nil, fmt.Errorf("expected one policy, got %d arguments", fs.NArg())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolve() error {
	if strings.TrimSpace(c.Policy) == "" {
		return ErrMissingPolicy
	}
	kind, err := bots.ParseKind(c.Policy)
	if err != nil {
		return err
	}
	c.Kind = kind

	c.NodeBudget, err = ParseNodes(c.Nodes)
	if err != nil {
		return err
	}

	if err := bots.ValidatePercent(c.ScovillePercent); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.Grace < 0 {
		return fmt.Errorf("negative grace period %v", c.Grace)
	}

	c.Level, err = zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// ParseNodes turns a --nodes value into a search budget, 0 meaning none.
func ParseNodes(s string) (uint64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "-", "unlimited":
		return 0, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNodes, s)
	}
	return n, nil
}

// Usage writes the command line help, including every policy name.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: fishwrap [flags] POLICY")
	fmt.Fprintln(w)
	fmt.Fprint(w, newFlagSet().FlagUsages())
	fmt.Fprintln(w)
	PrintPolicies(w)
}

func PrintPolicies(w io.Writer) {
	fmt.Fprintln(w, "policies:")
	for _, k := range bots.Kinds() {
		fmt.Fprintf(w, "  %-10s %s\n", k, strings.Join(bots.Aliases(k), ", "))
	}
}
