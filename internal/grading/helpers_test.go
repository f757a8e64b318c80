package grading

import (
	"os/exec"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/skillproctor/internal/logger"
)

func sandboxLookPath(name string) (string, error) { return exec.LookPath(name) }

func discard() *logrus.Logger { return logger.Discard() }
