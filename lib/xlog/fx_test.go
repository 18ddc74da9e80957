package xlog

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
)

func TestFxXLoggerAllCases(t *testing.T) {
	testcases := []struct {
		name   string
		event  fxevent.Event
		msg    string
		errMsg string
	}{
		{
			"onStartExecuting",
			&fxevent.OnStartExecuting{FunctionName: "run", CallerName: "main"},
			"hook OnStart executing", "",
		},
		{
			"onStartExecuted_err",
			&fxevent.OnStartExecuted{FunctionName: "run", CallerName: "main", Runtime: time.Millisecond, Err: errors.New("fx error 1")},
			"hook OnStart failed", "fx error 1",
		},
		{
			"onStartExecuted_succ",
			&fxevent.OnStartExecuted{FunctionName: "run", CallerName: "main", Runtime: time.Millisecond},
			"hook OnStart executed", "",
		},
		{
			"onStopExecuting",
			&fxevent.OnStopExecuting{FunctionName: "release", CallerName: "main"},
			"hook OnStop executing", "",
		},
		{
			"onStopExecuted_err",
			&fxevent.OnStopExecuted{FunctionName: "release", CallerName: "main", Err: errors.New("fx error 2")},
			"hook OnStop failed", "fx error 2",
		},
		{
			"onStopExecuted_succ",
			&fxevent.OnStopExecuted{FunctionName: "release", CallerName: "main"},
			"hook OnStop executed", "",
		},
		{
			"supplied_err",
			&fxevent.Supplied{TypeName: "config", Err: errors.New("fx error 3"), StackTrace: []string{"stack"}},
			"supply failed", "fx error 3",
		},
		{
			"supplied_succ",
			&fxevent.Supplied{TypeName: "config", ModuleName: "demo"},
			"supplied", "",
		},
		{
			"provided_succ",
			&fxevent.Provided{OutputTypeNames: []string{"tree.RBSet[int]"}, ConstructorName: "newSet", Private: true},
			"provided", "",
		},
		{
			"decorated_succ",
			&fxevent.Decorated{OutputTypeNames: []string{"xlog.XLogger"}, DecoratorName: "named"},
			"decorated", "",
		},
		{
			"invoking",
			&fxevent.Invoking{FunctionName: "registerScenario"},
			"invoking", "",
		},
		{
			"invoked_err",
			&fxevent.Invoked{FunctionName: "registerScenario", Err: errors.New("fx error 4"), Trace: "trace"},
			"invoke failed", "fx error 4",
		},
		{
			"stopping",
			&fxevent.Stopping{Signal: os.Interrupt},
			"stopping", "",
		},
		{
			"stopped_err",
			&fxevent.Stopped{Err: errors.New("fx error 5")},
			"stop failed", "fx error 5",
		},
		{
			"rollingBack",
			&fxevent.RollingBack{StartErr: errors.New("fx error 6")},
			"start failed, rolling back", "fx error 6",
		},
		{
			"rolledBack_err",
			&fxevent.RolledBack{Err: errors.New("fx error 7")},
			"roll back failed", "fx error 7",
		},
		{
			"started_err",
			&fxevent.Started{Err: errors.New("fx error 8")},
			"start failed", "fx error 8",
		},
		{
			"started_succ",
			&fxevent.Started{},
			"running", "",
		},
		{
			"loggerInitialized_err",
			&fxevent.LoggerInitialized{Err: errors.New("fx error 9")},
			"custom logger initialization failed", "fx error 9",
		},
		{
			"loggerInitialized_succ",
			&fxevent.LoggerInitialized{ConstructorName: "newFxLogger"},
			"custom logger initialized", "",
		},
	}

	parent, buf := newBufferedTestLogger(t, WithXLoggerLevel(LogLevelDebug))
	logger := NewFxXLogger(parent)
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			logger.LogEvent(tc.event)
			entries := decodeLines(t, buf)
			require.Len(t, entries, 1)
			require.Equal(t, tc.msg, entries[0]["msg"])
			require.Equal(t, "Fx", entries[0]["component"])
			if tc.errMsg != "" {
				require.Equal(t, tc.errMsg, entries[0]["error"])
			}
		})
	}
}

func TestFxXLogger_Silent(t *testing.T) {
	var logger *FxXLogger
	logger.LogEvent(&fxevent.Started{})

	parent, buf := newBufferedTestLogger(t, WithXLoggerLevel(LogLevelDebug))
	logger = NewFxXLogger(parent)
	// Successful invocations and stops are not worth a line.
	logger.LogEvent(&fxevent.Invoked{FunctionName: "registerScenario"})
	logger.LogEvent(&fxevent.Stopped{})
	logger.LogEvent(&fxevent.RolledBack{})
	require.Empty(t, buf.String())
}
