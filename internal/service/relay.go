package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"smsbot/internal/domain"
	"smsbot/internal/observability"
	"smsbot/internal/providers/mekong"
)

type Gateway interface {
	SendSMS(ctx context.Context, req mekong.SendRequest) (mekong.SendResponse, error)
}

// RelayService performs the single gateway call for a completed conversation
// and classifies what came back. It never retries.
type RelayService struct {
	Gateway Gateway
	Breaker *gobreaker.CircuitBreaker
	Timeout time.Duration
}

func NewBreaker(maxFailures uint32, openTimeout time.Duration) *gobreaker.CircuitBreaker {
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mekong",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= maxFailures },
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("gateway breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

func (s *RelayService) Send(ctx context.Context, sms domain.OutboundSMS) domain.Outcome {
	start := time.Now()
	resp, err := s.executeWithBreaker(ctx, sms)
	observability.GatewayLatency.Observe(time.Since(start).Seconds())

	out := Classify(sms, resp, err, s.timeout())
	observability.GatewaySend.WithLabelValues(string(out.Kind), strconv.Itoa(out.HTTPStatus)).Inc()

	slog.Debug("gateway raw response", "status", resp.StatusCode, "raw", resp.Raw)
	if out.Err != nil {
		slog.Error("gateway send failed", "err", out.Err, "to", sms.Phone, "duration", time.Since(start))
	} else {
		slog.Info("gateway send finished", "result", out.Kind, "http_status", out.HTTPStatus, "to", sms.Phone, "duration", time.Since(start))
	}
	return out
}

// Classify maps one gateway exchange onto the four user-facing outcomes.
func Classify(sms domain.OutboundSMS, resp mekong.SendResponse, err error, timeout time.Duration) domain.Outcome {
	out := domain.Outcome{Phone: sms.Phone, Message: sms.Message}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		out.Kind = domain.OutcomeSystemError
		out.Err = domain.ErrBreakerOpen
	case err != nil && mekong.IsTimeout(err):
		out.Kind = domain.OutcomeSystemError
		out.Err = fmt.Errorf("gateway timeout after %s: %w", timeout, err)
	case err != nil:
		out.Kind = domain.OutcomeSystemError
		out.Err = err
	case resp.StatusCode != http.StatusOK:
		out.Kind = domain.OutcomeHTTPError
		out.HTTPStatus = resp.StatusCode
		out.Raw = resp.Raw
	case mekong.ContainsSuccess(resp.Raw):
		out.Kind = domain.OutcomeSuccess
		out.HTTPStatus = resp.StatusCode
		out.Raw = resp.Raw
	default:
		out.Kind = domain.OutcomeWarning
		out.HTTPStatus = resp.StatusCode
		out.Raw = resp.Raw
	}
	return out
}

func (s *RelayService) executeWithBreaker(ctx context.Context, sms domain.OutboundSMS) (mekong.SendResponse, error) {
	call := func() (any, error) {
		// An issued send is not cancelled by shutdown; only the timeout bounds it.
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout())
		defer cancel()

		resp, err := s.Gateway.SendSMS(reqCtx, mekong.SendRequest{To: sms.Phone, Text: sms.Message})
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			// counted as a breaker failure, unwrapped again below
			return nil, statusError{resp: resp}
		}
		return resp, nil
	}

	var (
		res any
		err error
	)
	if s.Breaker == nil {
		res, err = call()
	} else {
		res, err = s.Breaker.Execute(call)
	}

	var se statusError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	if err != nil {
		return mekong.SendResponse{}, err
	}
	return res.(mekong.SendResponse), nil
}

func (s *RelayService) timeout() time.Duration {
	if s.Timeout <= 0 {
		return mekong.DefaultTimeout
	}
	return s.Timeout
}

type statusError struct {
	resp mekong.SendResponse
}

func (e statusError) Error() string { return "gateway http " + strconv.Itoa(e.resp.StatusCode) }
