package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/wolf-joe/ros-patch/aggregate"
	"github.com/wolf-joe/ros-patch/config"
	"github.com/wolf-joe/ros-patch/rule"
	"github.com/wolf-joe/ros-patch/script"
	"github.com/wolf-joe/ros-patch/utils"
)

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Merge site rule lists and write the apply and clean scripts",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return generate(a.ctx, a.conf, time.Now)
		},
	}
}

// 读取全部站点规则，生成添加规则脚本和清理脚本
func generate(ctx context.Context, conf *config.Conf, now func() time.Time) error {
	utils.CtxInfo(ctx, "start generating RouterOS scripts")
	agg, err := aggregate.Collect(ctx, conf.RuleDir, conf.Sites)
	if err != nil {
		return err
	}

	g := script.NewGenerator(conf.ScriptOptions(), now)
	if err = script.WriteFile(conf.ApplyFile, g.Apply(agg, conf.Sites)); err != nil {
		utils.CtxError(ctx, "%s", err)
		return err
	}
	utils.CtxInfo(ctx, "apply script written: %s", conf.ApplyFile)
	if err = script.WriteFile(conf.CleanFile, g.Clean()); err != nil {
		utils.CtxError(ctx, "%s", err)
		return err
	}
	utils.CtxInfo(ctx, "clean script written: %s", conf.CleanFile)

	for _, kind := range rule.Kinds {
		utils.CtxInfo(ctx, "total %s rules: %d", kind, agg.Rules.Len(kind))
	}
	utils.CtxInfo(ctx, "total rules: %d", agg.Rules.Total())
	return nil
}
