package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wolf-joe/ros-patch/utils"
	"github.com/wolf-joe/ros-patch/validator"
)

var errValidate = errors.New("some scripts failed validation")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check the syntax of generated scripts",
		Long:  "Check the syntax of generated scripts. Without arguments the configured apply and clean scripts are checked.",
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.conf.ApplyFile, a.conf.CleanFile}
			}
			return validate(a.ctx, os.Stdout, args)
		},
	}
}

// 依次检查每个脚本文件，任一文件有错误或无法读取时返回errValidate
func validate(ctx context.Context, out io.Writer, files []string) error {
	passed := make([]bool, len(files))
	for i, file := range files {
		report, err := validator.ValidateFile(file)
		if err != nil {
			utils.CtxError(ctx, "%s", err)
			continue
		}
		report.Print(out)
		passed[i] = report.Passed()
	}

	_, _ = fmt.Fprintln(out, "summary:")
	ok := true
	for i, file := range files {
		verdict := "PASS"
		if !passed[i] {
			verdict, ok = "FAIL", false
		}
		_, _ = fmt.Fprintf(out, "  %s: %s\n", file, verdict)
	}
	if !ok {
		return errValidate
	}
	utils.CtxInfo(ctx, "all scripts passed validation")
	return nil
}
