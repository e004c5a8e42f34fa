package byteslice

import (
	"github.com/sirupsen/logrus"
)

type logWrapper struct {
	logger *logrus.Logger
}

func (l *logWrapper) debug(msg string, fields logrus.Fields) {
	if l != nil && l.logger != nil && l.logger.IsLevelEnabled(logrus.DebugLevel) {
		l.logger.WithFields(fields).Debug(msg)
	}
}
