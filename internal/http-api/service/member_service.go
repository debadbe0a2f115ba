package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

type MemberService interface {
	List(ctx context.Context) ([]models.Member, error)
	Get(ctx context.Context, id int64) (*models.Member, error)
	Create(ctx context.Context, name, email string) (*models.Member, error)
	Update(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, id int64) error
	RecordPayment(ctx context.Context, id int64, amount float64) (*PaymentResult, error)
}

// PaymentResult is the member after a payment and the change owed back, if any.
type PaymentResult struct {
	Member *models.Member
	Refund float64
	Notice Notice
}

type memberService struct {
	tx      repository.Transactor
	members repository.MemberRepository
	cache   Cache
	now     func() time.Time
	logger  *zap.Logger
}

func NewMemberService(tx repository.Transactor, members repository.MemberRepository, cache Cache, now func() time.Time, logger *zap.Logger) MemberService {
	if now == nil {
		now = time.Now
	}
	return &memberService{tx: tx, members: members, cache: cache, now: now, logger: logger}
}

func (s *memberService) List(ctx context.Context) ([]models.Member, error) {
	return s.members.List(ctx)
}

func (s *memberService) Get(ctx context.Context, id int64) (*models.Member, error) {
	m, err := s.members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// Create registers a member today with a clean balance.
func (s *memberService) Create(ctx context.Context, name, email string) (*models.Member, error) {
	name, email, err := validateContact(name, email)
	if err != nil {
		return nil, err
	}
	m := &models.Member{Name: name, Email: email, RegDate: s.now()}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("member registered", zap.Int64("member_id", m.ID))
	return m, nil
}

// Update changes name and email only. Counters and balances are owned by rentals and payments.
func (s *memberService) Update(ctx context.Context, id int64, name, email string) error {
	name, email, err := validateContact(name, email)
	if err != nil {
		return err
	}
	if err := s.members.UpdateContact(ctx, id, name, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	invalidateReports(ctx, s.cache, s.logger)
	return nil
}

func (s *memberService) Delete(ctx context.Context, id int64) error {
	if err := s.members.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrMemberNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrMemberInUse
		}
		return err
	}
	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("member deleted", zap.Int64("member_id", id))
	return nil
}

// RecordPayment credits a payment against the member's debt under a row lock.
func (s *memberService) RecordPayment(ctx context.Context, id int64, amount float64) (*PaymentResult, error) {
	if amount <= 0 {
		return nil, invalid("amount must be positive")
	}
	amount = roundCents(amount)

	var result PaymentResult
	err := s.tx.WithinTx(ctx, func(tx repository.Repos) error {
		m, err := tx.Members.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		settlement := ApplyPayment(m.Debt, amount)
		m.AmountPaid = roundCents(m.AmountPaid + amount)
		m.Debt = settlement.Debt
		if err := tx.Members.SaveBalance(ctx, m); err != nil {
			return err
		}

		result = PaymentResult{Member: m, Refund: settlement.Refund, Notice: settlement.Notice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("payment recorded",
		zap.Int64("member_id", id),
		zap.Float64("amount", amount),
		zap.Float64("debt", result.Member.Debt),
		zap.Float64("refund", result.Refund),
	)
	return &result, nil
}

func validateContact(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return "", "", invalid("name is required")
	}
	if email == "" {
		return "", "", invalid("email is required")
	}
	return name, email, nil
}
