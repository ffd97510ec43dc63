// kdb is a small relational database engine on top of an ordered key value
// store. This binary starts an interactive shell.
package main

import (
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chirst/kdb/db"
	"github.com/chirst/kdb/repl"
)

func main() {
	root := &cobra.Command{
		Use:   "kdb",
		Short: "kdb is a sql database on an ordered key value store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			setupLogging(viper.GetString("log-level"))
			d, err := db.New(viper.GetBool("memory"), viper.GetString("path"))
			if err != nil {
				return err
			}
			repl.New(d).Run()
			return nil
		},
	}
	root.Flags().String("path", "kdb.db", "database file")
	root.Flags().Bool("memory", false, "run in memory without persisting changes")
	root.Flags().String("log-level", "warn", "log level (debug, info, warn, error)")
	viper.BindPFlags(root.Flags())
	viper.SetEnvPrefix("kdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setupLogging(level string) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(h))
}
