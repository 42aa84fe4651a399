package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/hamed0406/sslchecker/internal/checker"
	"github.com/hamed0406/sslchecker/internal/config"
	"github.com/hamed0406/sslchecker/internal/domain"
	"github.com/hamed0406/sslchecker/internal/httpapi"
	"github.com/hamed0406/sslchecker/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.NewStdout(cfg.LogLevel)
	defer logger.Sync()

	eng, err := checker.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("engine_init_error", zap.Error(err))
		os.Exit(1)
	}

	h := &handler{engine: eng, logger: logger}
	lambda.Start(h.handle)
}

// drainMargin is left between the end of the alert drain and the
// invocation deadline so the response can still be returned.
const drainMargin = 250 * time.Millisecond

type engine interface {
	httpapi.Checker
	Wait()
}

type handler struct {
	engine engine
	logger *zap.Logger
}

// handle serves an API Gateway proxy request carrying ?host=. Alerts are
// drained before returning because the runtime freezes between invocations,
// but never past the invocation deadline.
func (h *handler) handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	host, err := httpapi.NormalizeHost(req.QueryStringParameters["host"])
	if err != nil {
		h.logger.Info("check_rejected", zap.String("host", req.QueryStringParameters["host"]), zap.Error(err))
		return toProxy(domain.BadRequest(err.Error())), nil
	}

	res := h.engine.Check(ctx, host)
	if !h.drain(ctx) {
		h.logger.Warn("notify_drain_cut", zap.String("host", host))
	}
	return toProxy(res.Response()), nil
}

// drain waits for in-flight alerts until shortly before ctx's deadline.
// It reports whether the alerts finished in time.
func (h *handler) drain(ctx context.Context) bool {
	done := make(chan struct{})
	go func() {
		h.engine.Wait()
		close(done)
	}()

	deadline, ok := ctx.Deadline()
	if !ok {
		<-done
		return true
	}
	t := time.NewTimer(time.Until(deadline) - drainMargin)
	defer t.Stop()
	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}

func toProxy(resp domain.Response) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(resp)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
