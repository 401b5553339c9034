package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg *Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "objtree",
	Short: "Content-addressable object model for filesystem snapshots",
	Long: `Hash files and directories into immutable blob and tree objects,
and inspect the objects kept in a local object store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		l, err := newLogger(c.LogLevel)
		if err != nil {
			return err
		}
		cfg, log = c, l
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/objtree/config.yaml)")
	flags.String("store-dir", "", "object store directory (default: ~/.local/share/objtree)")
	flags.String("store-type", "", "object store backend: local or badger")
	flags.String("algorithm", "", "digest algorithm: sha1 or shake256-160")
	flags.Int("concurrency", 0, "sibling entries built in parallel")
	flags.String("log-level", "", "log level")

	viper.BindPFlag("store.path", flags.Lookup("store-dir"))
	viper.BindPFlag("store.type", flags.Lookup("store-type"))
	viper.BindPFlag("algorithm", flags.Lookup("algorithm"))
	viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if file := rootCmd.PersistentFlags().Lookup("config").Value.String(); file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("OBJTREE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "objtree")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "objtree")
	}
	return ".objtree"
}
