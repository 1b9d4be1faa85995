package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/config"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/util"
)

// MaxFetchLimit is the largest page size FilterLogEvents accepts.
const MaxFetchLimit = 10000

// ConfigEnv names the environment variable holding the config path.
const ConfigEnv = "CWLV_CONFIG"

// Options holds CLI options as parsed from flags.
type Options struct {
	ConfigPath   string
	Region       string
	Profile      string
	GroupPrefix  string
	TickRate     time.Duration
	TailInterval time.Duration
	TailLookback time.Duration
	FetchLimit   int32
	DisplayPath  string
	LogFile      string
	Fold         bool
	Debug        bool
}

// RunFunc starts the viewer with the merged configuration.
type RunFunc func(cmd *cobra.Command, cfg config.Config, level logrus.Level) error

// NewRootCommand builds the root command. Settings come from the config file,
// then the environment, then flags given on the command line.
func NewRootCommand(run RunFunc) *cobra.Command {
	o := &Options{}
	root := &cobra.Command{
		Use:   "aws-multi-log-viewer",
		Short: "Browse and tail several CloudWatch Logs groups side by side",
		Long: `aws-multi-log-viewer is a terminal UI for CloudWatch Logs.
Select up to four log groups in the sidebar; each opens a pane that tails the
group or pages through a search.

Usage:
  aws-multi-log-viewer                            # default profile and region
  aws-multi-log-viewer --profile dev --region ap-northeast-1
  aws-multi-log-viewer --group-prefix /aws/lambda # only list lambda groups`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := o.Resolve(c.Flags())
			if err != nil {
				return err
			}
			level := logrus.InfoLevel
			if o.Debug {
				level = logrus.DebugLevel
			}
			return run(c, cfg, level)
		},
	}
	o.bind(root.Flags())
	return root
}

func (o *Options) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigPath, "config", "c", "", "Config file (or set "+ConfigEnv+"; default "+config.DefaultPath()+")")
	fs.StringVar(&o.Region, "region", "", "AWS region (or set AWS_REGION; falls back to AWS defaults)")
	fs.StringVar(&o.Profile, "profile", "", "AWS shared config profile (or set AWS_PROFILE)")
	fs.StringVar(&o.GroupPrefix, "group-prefix", "", "Only list log groups whose names start with this prefix")
	fs.DurationVar(&o.TickRate, "tick-rate", 0, "UI refresh interval (e.g. 250ms)")
	fs.DurationVar(&o.TailInterval, "tail-interval", 0, "Interval between tail polls (e.g. 1s)")
	fs.DurationVar(&o.TailLookback, "tail-lookback", 0, "How far back a new tail starts (e.g. 5m)")
	fs.Int32Var(&o.FetchLimit, "fetch-limit", 0, "Events requested per page")
	fs.StringVar(&o.DisplayPath, "display-path", "", "JMESPath used to summarize JSON messages (e.g. message)")
	fs.StringVar(&o.LogFile, "log-file", "", "Diagnostic log file")
	fs.BoolVar(&o.Fold, "fold", false, "Start with the sidebar folded")
	fs.BoolVar(&o.Debug, "debug", false, "Write debug entries to the log file")
}

// Resolve loads the config file and overlays the environment and the flags
// that were set, then validates the result.
func (o *Options) Resolve(fs *pflag.FlagSet) (config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v := ResolveRegion(o.Region); v != "" {
		cfg.Region = v
	}
	if v := ResolveProfile(o.Profile); v != "" {
		cfg.Profile = v
	}
	if fs.Changed("group-prefix") {
		cfg.GroupPrefix = o.GroupPrefix
	}
	if fs.Changed("tick-rate") {
		cfg.TickRate = o.TickRate
	}
	if fs.Changed("tail-interval") {
		cfg.TailInterval = o.TailInterval
	}
	if fs.Changed("tail-lookback") {
		cfg.TailLookback = o.TailLookback
	}
	if fs.Changed("fetch-limit") {
		cfg.FetchLimit = o.FetchLimit
	}
	if fs.Changed("display-path") {
		cfg.DisplayPath = o.DisplayPath
	}
	if fs.Changed("log-file") {
		cfg.LogFile = o.LogFile
	}
	if fs.Changed("fold") {
		cfg.FoldSidebar = o.Fold
	}

	if err := Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Validate checks the merged settings.
func Validate(cfg config.Config) error {
	var errs []error
	if cfg.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %s", cfg.TickRate))
	}
	if cfg.TailInterval <= 0 {
		errs = append(errs, fmt.Errorf("tail interval must be positive, got %s", cfg.TailInterval))
	}
	if cfg.TailLookback <= 0 {
		errs = append(errs, fmt.Errorf("tail lookback must be positive, got %s", cfg.TailLookback))
	}
	if cfg.FetchLimit < 1 || cfg.FetchLimit > MaxFetchLimit {
		errs = append(errs, fmt.Errorf("fetch limit must be between 1 and %d, got %d", MaxFetchLimit, cfg.FetchLimit))
	}
	if err := util.ValidateExpr(cfg.DisplayPath); err != nil {
		errs = append(errs, fmt.Errorf("display path: %w", err))
	}
	return errors.Join(errs...)
}

// ResolveRegion returns the region from flag or AWS_REGION env, or empty.
func ResolveRegion(flagRegion string) string {
	if flagRegion != "" {
		return flagRegion
	}
	return os.Getenv("AWS_REGION")
}

// ResolveProfile returns the profile from flag or AWS_PROFILE env, or empty.
func ResolveProfile(flagProfile string) string {
	if flagProfile != "" {
		return flagProfile
	}
	return os.Getenv("AWS_PROFILE")
}
