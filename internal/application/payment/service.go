package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/contracts"
	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
)

// Service owns the payment lifecycle. Callers must already hold the admin
// capability; no authorization happens here.
//
// Recorder and Metrics are optional. Now defaults to time.Now.
type Service struct {
	Repo     payment.Repository
	Recorder contracts.EventRecorder
	Logger   logging.Logger
	Metrics  contracts.RejectionCounter
	Now      func() time.Time
}

type CreateCommand struct {
	DebtCode   int64
	PayerID    string
	Method     payment.Method
	CardNumber string
	Amount     decimal.Decimal
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*payment.Payment, error) {
	if err := payment.Validate(cmd.DebtCode, cmd.PayerID, cmd.Method, cmd.CardNumber, cmd.Amount); err != nil {
		return nil, err
	}

	p := payment.New(cmd.DebtCode, cmd.PayerID, cmd.Method, cmd.CardNumber, cmd.Amount, s.now())

	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger().Info("payment created", map[string]any{
		"payment-id": p.ID,
		"debt-code":  p.DebtCode,
		"method":     p.Method,
	})

	s.record(event.Event{
		Type: event.PaymentCreated,
		Payload: event.PaymentCreatedPayload{
			PaymentID: p.ID,
			DebtCode:  p.DebtCode,
			Method:    string(p.Method),
			Amount:    p.Amount.String(),
			CreatedAt: p.CreatedAt,
		},
	})

	return p, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, requested payment.Status) (*payment.Payment, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := p.Status
	if err := p.UpdateStatus(requested, s.now()); err != nil {
		s.rejected(id, "update-status", err)
		return nil, err
	}

	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger().Info("payment status updated", map[string]any{
		"payment-id": p.ID,
		"from":       from,
		"to":         p.Status,
	})

	s.record(event.Event{
		Type: event.PaymentStatusChanged,
		Payload: event.PaymentStatusChangedPayload{
			PaymentID: p.ID,
			From:      string(from),
			To:        string(p.Status),
			ChangedAt: *p.UpdatedAt,
		},
	})

	return p, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*payment.Payment, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Deactivate(s.now()); err != nil {
		s.rejected(id, "deactivate", err)
		return nil, err
	}

	if err := s.Repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger().Info("payment deactivated", map[string]any{
		"payment-id": p.ID,
	})

	s.record(event.Event{
		Type: event.PaymentDeactivated,
		Payload: event.PaymentDeactivatedPayload{
			PaymentID:     p.ID,
			DeactivatedAt: *p.UpdatedAt,
		},
	})

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *Service) FindAll(ctx context.Context) ([]*payment.Payment, error) {
	return s.Repo.FindAll(ctx)
}

// FindByFilter honours a single criterion; see Filter.Resolve for the
// priority order.
func (s *Service) FindByFilter(ctx context.Context, f Filter) ([]*payment.Payment, error) {
	c := f.Resolve()

	switch c.Kind {
	case ByDebtCode:
		return s.Repo.FindByDebtCode(ctx, c.DebtCode)
	case ByPayerID:
		return s.Repo.FindByPayerID(ctx, c.PayerID)
	case ByStatus:
		return s.Repo.FindByStatus(ctx, c.Status)
	}
	return s.Repo.FindAll(ctx)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() logging.Logger {
	if s.Logger == nil {
		return logging.Nop{}
	}
	return s.Logger
}

func (s *Service) rejected(id int64, op string, err error) {
	if s.Metrics != nil {
		s.Metrics.IncRejected()
	}

	fields := map[string]any{
		"payment-id": id,
		"operation":  op,
		"reason":     err.Error(),
	}
	var terr *payment.TransitionError
	if errors.As(err, &terr) {
		fields["rejection"] = terr.Reason
	}
	s.logger().Warn("payment transition rejected", fields)
}

// record is best effort: the payment is already saved, so a failing
// recorder is logged and swallowed.
func (s *Service) record(evt event.Event) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.Record(evt); err != nil {
		s.logger().Error("failed to record event", map[string]any{
			"event-type": evt.Type,
			"error":      err.Error(),
		})
	}
}
