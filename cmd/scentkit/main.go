// scentkit 是香水混合推荐服务的命令行入口。
//
//	scentkit serve --config scentkit.yaml
//	scentkit import --file perfume_data_clean.csv
//	scentkit similar "Light Blue"
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/scentkit/config"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	sqliteDSN  string
	indexPath  string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "scentkit",
		Short:         "Hybrid fragrance recommendation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (json, console)")
	pf.StringVar(&flags.sqliteDSN, "sqlite-dsn", "", "sqlite DSN for the catalog database")
	pf.StringVar(&flags.indexPath, "index", "", "path to the similarity matrix")

	root.AddCommand(
		newServeCmd(flags),
		newImportCmd(flags),
		newSimilarCmd(flags),
	)
	return root
}

// load 读取配置文件，再用命令行参数覆盖。
func (f *rootFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.sqliteDSN != "" {
		cfg.Storage.SQLiteDSN = f.sqliteDSN
	}
	if f.indexPath != "" {
		cfg.Index.Path = f.indexPath
	}
	return cfg, nil
}
