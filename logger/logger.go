package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/common"
)

// Log is the global logger instance of PFLog.
var Log *PFLog

func init() {
	// A usable console logger is always available; InitGlobalLogger
	// reconfigures it from CLI flags.
	if err := InitGlobalLogger("", false, logrus.InfoLevel); err != nil {
		l := logrus.New()
		l.SetOutput(os.Stdout)
		Log = &PFLog{Logger: l}
	}
}

// PFLog wraps logrus.Logger for application-specific logging.
type PFLog struct {
	*logrus.Logger
}

// InitGlobalLogger initializes the global Log variable.
// With an outputPath, logs go to a daily-rotated file under that directory;
// otherwise they go colored to the console.
func InitGlobalLogger(outputPath string, verbose bool, defaultLevel logrus.Level) error {
	logger := logrus.New()

	currentLogLevel := defaultLevel
	if verbose {
		currentLogLevel = logrus.DebugLevel
	}
	logger.SetLevel(currentLogLevel)

	formatterDisplayLevelConfig := ShowAboveWarn
	if verbose {
		formatterDisplayLevelConfig = ShowAll
	}

	defaultFieldsOrder := []string{
		common.LogFieldApp, common.LogFieldRunID, common.LogFieldPipeline, common.LogFieldStepName,
	}

	if outputPath != "" {
		if err := os.MkdirAll(outputPath, 0755); err != nil {
			return fmt.Errorf("failed to create log output directory %s: %w", outputPath, err)
		}
		logFilePath := filepath.Join(outputPath, common.AppName+".log")

		writer, err := rotatelogs.New(
			logFilePath+".%Y%m%d", // Daily rotation
			rotatelogs.WithLinkName(logFilePath),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize rotatelogs for %s: %w", logFilePath, err)
		}

		logger.SetReportCaller(true)
		fileFormatter := &Formatter{
			TimestampFormat:        "2006-01-02 15:04:05.000 MST",
			NoColors:               true,
			DisplayLevelName:       formatterDisplayLevelConfig,
			FieldsDisplayWithOrder: defaultFieldsOrder,
			FieldSeparator:         " | ",
			DisableCaller:          false,
			CustomCallerFormatter: func(frame *runtime.Frame) string {
				return fmt.Sprintf(" [%s:%d %s]", filepath.Base(frame.File), frame.Line, filepath.Base(frame.Function))
			},
		}
		logger.SetFormatter(fileFormatter)

		logWriters := lfshook.WriterMap{}
		for _, level := range logrus.AllLevels {
			if logger.IsLevelEnabled(level) {
				logWriters[level] = writer
			}
		}
		if len(logWriters) > 0 {
			logger.Hooks.Add(lfshook.NewHook(logWriters, fileFormatter))
			// File logging goes through the hook; discard the default stream
			// so entries are not written twice.
			logger.SetOutput(io.Discard)
		}
	} else {
		consoleFormatter := &Formatter{
			TimestampFormat:        "15:04:05",
			NoColors:               false,
			DisplayLevelName:       formatterDisplayLevelConfig,
			DisableCaller:          true, // Caller info too verbose for console
			FieldsDisplayWithOrder: defaultFieldsOrder,
		}
		logger.SetFormatter(consoleFormatter)
		logger.SetOutput(os.Stdout)
	}

	Log = &PFLog{
		Logger: logger,
	}
	return nil
}
