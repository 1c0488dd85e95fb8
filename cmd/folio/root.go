package main

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/folio"
	"github.com/eringen/folio/i18n"
	"github.com/eringen/folio/views"
)

const envPrefix = "FOLIO"

// flagKeys maps command-line flags to SiteConfig keys. Flags are bound for
// the running command only, since build and serve share names.
var flagKeys = map[string]string{
	"content": "contentDir",
	"out":     "outputDir",
	"drafts":  "includeDrafts",
	"workers": "buildWorkers",
	"addr":    "addr",
	"watch":   "watch",
}

// cli carries the state shared by the subcommands.
type cli struct {
	cfgFile string
	envFile string
	verbose bool

	v      *viper.Viper
	config folio.SiteConfig
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	root := &cobra.Command{
		Use:   "folio",
		Short: "Multilingual portfolio and blog engine",
		Long: `folio turns a directory of markdown posts, grouped by language, into a
portfolio site. It can write a static site or serve the content directly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "new" || cmd.Name() == "version" {
				return nil
			}
			return c.initializeConfig(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./folio.yaml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the config")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log per-file diagnostics")
	root.PersistentFlags().String("content", "", "content directory")

	root.AddCommand(
		newBuildCmd(c),
		newServeCmd(c),
		newListCmd(c),
		newShowCmd(c),
		newNewCmd(),
		newVersionCmd(),
	)
	return root
}

// initializeConfig loads .env, then folio.yaml, then FOLIO_* variables and
// flags, each overriding the one before.
func (c *cli) initializeConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", c.envFile, err)
	}

	c.logger = log.New("folio")
	c.logger.SetLevel(log.INFO)
	if c.verbose {
		c.logger.SetLevel(log.DEBUG)
	}

	v := c.v
	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees env values for keys viper already knows.
	for _, key := range configKeys() {
		_ = v.BindEnv(key)
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if c.cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", c.cfgFile, err)
		}
		c.logger.Debugf("no folio.yaml found, using defaults and environment")
	} else {
		c.logger.Infof("using config file %s", v.ConfigFileUsed())
	}

	var cfg folio.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}
	c.config = cfg.WithDefaults()
	return nil
}

// configKeys lists the mapstructure keys of folio.SiteConfig.
func configKeys() []string {
	t := reflect.TypeOf(folio.SiteConfig{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			keys = append(keys, tag)
		}
	}
	return keys
}

// defaultViews wires the views package into folio.
func defaultViews(cfg folio.SiteConfig) (folio.ViewFuncs, error) {
	locales, err := i18n.NewSet(cfg.DefaultLocale, cfg.Locales...)
	if err != nil {
		return folio.ViewFuncs{}, err
	}
	v := views.New(views.SiteConfig{
		Name:        cfg.Name,
		URL:         cfg.URL,
		Description: cfg.Description,
		Author:      cfg.Author,
	}, locales)
	return folio.ViewFuncs{
		Home:        v.Home,
		BlogIndex:   v.BlogIndex,
		BlogAll:     v.BlogAll,
		About:       v.About,
		Post:        v.Post,
		NotFound:    v.NotFound,
		ServerError: v.ServerError,
		Redirect:    v.Redirect,
	}, nil
}
