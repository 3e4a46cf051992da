package api

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/datavault/internal/logging"
)

// restyLogger routes resty's printf-style logging into logging.Logger.
type restyLogger struct {
	l logging.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug(context.Background(), fmt.Sprintf(format, v...))
}
