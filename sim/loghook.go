package sim

import (
	"github.com/sirupsen/logrus"
)

// A LogHook is a hook that is resonsible for recording information from the
// simulation
type LogHook interface {
	Hook
}

// LogHookBase proovides the common logic for all LogHooks
type LogHookBase struct {
	Logger logrus.FieldLogger
}

// NewLogHookBase creates a LogHookBase. A nil logger falls back to the
// standard logrus logger.
func NewLogHookBase(logger logrus.FieldLogger) LogHookBase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return LogHookBase{Logger: logger}
}
