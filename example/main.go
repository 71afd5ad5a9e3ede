// Command example demonstrates the minimal ringlog setup: a file-backed
// Runtime, a Logger facade on top of it, and a graceful shutdown.
package main

import (
	"context"
	"fmt"

	"github.com/quaylabs/ringlog"
)

func main() {
	writer, err := ringlog.NewFileWriter("app.log")
	if err != nil {
		panic(err)
	}

	rt, err := ringlog.New(writer,
		ringlog.WithMaxFlushRetries(3),
		ringlog.WithErrorHandler(func(err error) {
			fmt.Println("ringlog error:", err)
		}),
	)
	if err != nil {
		panic(err)
	}
	defer rt.Shutdown(context.Background())

	logger := ringlog.NewLogger(rt)
	logger.SetLevel(ringlog.INFO)

	logger.Info("service starting")
	logger.Infof("listening on %s", "0.0.0.0:8080")
	logger.InfoWithFields(map[string]any{"user_id": 123, "endpoint": "/api/user"}, "request processed")
	logger.Warnf("retry %d of %d", 2, 3)
}
