package appinit

import (
	"gitee.com/czyczk/learnledger/internal/global"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SetupLogger sets the log level and whether timing logs are shown.
func SetupLogger(level string, showTimingLogs bool) error {
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "无法解析日志级别 '%v'", level)
	}

	log.SetLevel(logLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	global.ShowTimingLogs = showTimingLogs

	return nil
}
