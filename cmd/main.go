package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/wolf-joe/ros-patch/config"
	"github.com/wolf-joe/ros-patch/utils"
)

// VERSION 程序版本号
var VERSION = "v0.1.0-dev"

type app struct {
	confFile string
	logLevel string
	logger   *logrus.Logger
	ctx      context.Context
	conf     *config.Conf
}

// 读取配置文件并初始化日志。未指定-c时配置文件可以不存在
func (a *app) setup(cmd *cobra.Command) error {
	a.ctx = utils.NewCtx(a.logger, uint16(time.Now().UnixNano()))
	optional := !cmd.Flags().Changed("config")
	conf, err := config.NewConfFromFile(a.ctx, a.confFile, optional)
	if err != nil {
		return err
	}
	level := conf.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if err = utils.SetLevel(a.logger, level); err != nil {
		utils.CtxError(a.ctx, "set log level %q error: %s", level, err)
		return err
	}
	a.conf = conf
	return nil
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	a := &app{logger: logger}
	root := &cobra.Command{
		Use:           "ros-patch",
		Short:         "Generate RouterOS auto proxy scripts from Clash rule lists",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.confFile, "config", "c", config.DefaultFile, "config file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides log_level in config")
	root.AddCommand(newGenerateCmd(a), newValidateCmd(a))
	return root
}

func main() {
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Errorf("%s", err)
		os.Exit(1)
	}
}
