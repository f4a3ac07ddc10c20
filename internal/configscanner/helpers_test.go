package configscanner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/models"
)

// fakeTrivy writes report to the --output path and exits with exitCode.
type fakeTrivy struct {
	missing  bool
	execErr  error
	exitCode int
	report   string
	dir      string
	args     []string
}

func (f *fakeTrivy) LookPath(name string) (string, error) {
	if f.missing {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeTrivy) Execute(_ context.Context, dir string, name string, args ...string) (command.Result, error) {
	f.dir = dir
	f.args = append([]string{filepath.Base(name)}, args...)
	if f.execErr != nil {
		return command.Result{}, f.execErr
	}
	for i, a := range args {
		if a == "--output" && i+1 < len(args) && f.report != "" {
			if err := os.WriteFile(args[i+1], []byte(f.report), 0o644); err != nil {
				return command.Result{}, err
			}
		}
	}
	return command.Result{ExitCode: f.exitCode}, nil
}

type fakeUploader struct {
	calls  int
	report models.ConfigReport
	err    error
}

func (f *fakeUploader) UploadConfigs(_ context.Context, report models.ConfigReport) error {
	f.calls++
	f.report = report
	return f.err
}
