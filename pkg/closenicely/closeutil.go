package closenicely

import (
	"io"

	"go.uber.org/zap"
)

// OrDebug closes c, logging a failure at debug level. Use it for deferred closes where the close error
// cannot change the outcome, such as files only read from.
func OrDebug(c io.Closer, name string) {
	if err := c.Close(); err != nil {
		zap.L().Debug("failed to close", zap.String("name", name), zap.Error(err))
	}
}
