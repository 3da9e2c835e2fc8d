package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zapcore.InfoLevel))
	suite.False(logger.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestWithLevel() {
	logger, err := NewLogger(WithLevel("DEBUG"))
	suite.Require().NoError(err)
	suite.True(logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(WithLevel("warn"))
	suite.Require().NoError(err)
	suite.False(logger.Core().Enabled(zapcore.InfoLevel))
	suite.True(logger.Core().Enabled(zapcore.WarnLevel))
}

func (suite *LoggerTestSuite) TestWithUnknownLevelKeepsInfo() {
	logger, err := NewLogger(WithLevel("verbose"))
	suite.Require().NoError(err)
	suite.True(logger.Core().Enabled(zapcore.InfoLevel))
	suite.False(logger.Core().Enabled(zapcore.DebugLevel))
}

func (suite *LoggerTestSuite) TestWithEncoding() {
	logger, err := NewLogger(WithEncoding("console"))
	suite.Require().NoError(err)
	suite.NotNil(logger)

	// unknown encodings are ignored instead of failing the build
	logger, err = NewLogger(WithEncoding("xml"))
	suite.Require().NoError(err)
	suite.NotNil(logger)
}

func (suite *LoggerTestSuite) TestLoggerSync() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)

	// Sync may return an error when stdout is not a file but must not panic
	_ = logger.Sync()
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}

	err := logger.Sync()
	suite.NoError(err)
}

func (suite *LoggerTestSuite) TestNopLogger() {
	logger := NewNopLogger()
	suite.NotNil(logger.Logger)
	suite.NotPanics(func() {
		logger.Info("discarded", zap.String("ticker", "AAPL"))
		logger.Error("discarded")
	})
	suite.NoError(logger.Sync())
}

func (suite *LoggerTestSuite) TestLoggerWithFields() {
	logger, err := NewLogger()
	suite.NoError(err)
	suite.NotNil(logger)

	suite.NotPanics(func() {
		logger.With(zap.String("strategy", "basic_straddle")).Info("test message with fields")
	})
}

func (suite *LoggerTestSuite) TestWithOutputPaths() {
	path := filepath.Join(suite.T().TempDir(), "scanner.log")

	logger, err := NewLogger(WithOutputPaths(path))
	suite.Require().NoError(err)

	logger.Info("written to file", zap.String("ticker", "SPY"))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), "written to file")
	suite.Contains(string(content), `"ticker":"SPY"`)
}
