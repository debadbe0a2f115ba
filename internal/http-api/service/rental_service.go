package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

type RentalService interface {
	List(ctx context.Context) ([]models.Rental, error)
	Issue(ctx context.Context, req IssueRequest) (*models.Rental, error)
	Quote(ctx context.Context, rentalID int64) (*ReturnQuote, error)
	Return(ctx context.Context, rentalID int64, tendered float64) (*ReturnResult, error)
}

type IssueRequest struct {
	BookID   int64
	MemberID int64
	DayFee   float64
}

// ReturnQuote is what a rental would cost if returned now.
type ReturnQuote struct {
	Rental       *models.Rental
	DaysBorrowed int
	AmountDue    float64
}

type ReturnResult struct {
	Rental    *models.Rental
	AmountDue float64
	Debt      float64
	Refund    float64
	Notice    Notice
}

type RentalOptions struct {
	DebtLimit float64
	// Location decides where calendar days start for fee calculation.
	Location *time.Location
	Now      func() time.Time
}

type rentalService struct {
	tx      repository.Transactor
	rentals repository.RentalRepository
	cache   Cache
	opts    RentalOptions
	logger  *zap.Logger
}

func NewRentalService(tx repository.Transactor, rentals repository.RentalRepository, cache Cache, opts RentalOptions, logger *zap.Logger) RentalService {
	if opts.DebtLimit <= 0 {
		opts.DebtLimit = DefaultDebtLimit
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &rentalService{tx: tx, rentals: rentals, cache: cache, opts: opts, logger: logger}
}

func (s *rentalService) List(ctx context.Context) ([]models.Rental, error) {
	return s.rentals.List(ctx)
}

// Issue checks a copy out to a member. Row locks are taken member first, then
// book, the same order Return uses.
func (s *rentalService) Issue(ctx context.Context, req IssueRequest) (*models.Rental, error) {
	if req.DayFee < 0 {
		return nil, invalid("day fee must not be negative")
	}

	var rental *models.Rental
	err := s.tx.WithinTx(ctx, func(tx repository.Repos) error {
		book, err := tx.Books.GetByID(ctx, req.BookID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		member, err := tx.Members.GetForUpdate(ctx, req.MemberID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if member.Debt >= s.opts.DebtLimit {
			return &DebtLimitError{Debt: member.Debt, Limit: s.opts.DebtLimit}
		}

		if err := tx.Books.CheckoutCopy(ctx, book.ID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrBookUnavailable
			}
			return err
		}

		member.TotalBooksRented++
		if err := tx.Members.SaveBalance(ctx, member); err != nil {
			return err
		}

		rental = &models.Rental{
			BookID:   book.ID,
			MemberID: member.ID,
			RentDate: s.opts.Now(),
			DayFee:   roundCents(req.DayFee),
		}
		return tx.Rentals.Create(ctx, rental)
	})
	if err != nil {
		s.logger.Info("book not issued",
			zap.Int64("book_id", req.BookID),
			zap.Int64("member_id", req.MemberID),
			zap.Error(err),
		)
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("book issued",
		zap.Int64("rent_id", rental.ID),
		zap.Int64("book_id", rental.BookID),
		zap.Int64("member_id", rental.MemberID),
	)
	return rental, nil
}

// Quote prices an open rental without changing anything.
func (s *rentalService) Quote(ctx context.Context, rentalID int64) (*ReturnQuote, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	if rental.IsReturned() {
		return nil, ErrAlreadyReturned
	}

	days := DaysBorrowed(rental.RentDate, s.opts.Now(), s.opts.Location)
	return &ReturnQuote{
		Rental:       rental,
		DaysBorrowed: days,
		AmountDue:    AmountDue(rental.DayFee, days),
	}, nil
}

// Return closes a rental, puts the copy back and settles the member's balance.
// The amount due is recomputed here rather than trusted from the quote.
func (s *rentalService) Return(ctx context.Context, rentalID int64, tendered float64) (*ReturnResult, error) {
	if tendered < 0 {
		return nil, invalid("amount paid must not be negative")
	}
	tendered = roundCents(tendered)

	var result ReturnResult
	err := s.tx.WithinTx(ctx, func(tx repository.Repos) error {
		rental, err := tx.Rentals.GetForUpdate(ctx, rentalID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRentalNotFound
			}
			return err
		}
		if rental.IsReturned() {
			return ErrAlreadyReturned
		}

		now := s.opts.Now()
		due := AmountDue(rental.DayFee, DaysBorrowed(rental.RentDate, now, s.opts.Location))

		member, err := tx.Members.GetForUpdate(ctx, rental.MemberID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		if err := tx.Books.ReturnCopy(ctx, rental.BookID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		settlement := SettleReturn(member.Debt, due, tendered, s.opts.DebtLimit)
		if member.TotalBooksRented > 0 {
			member.TotalBooksRented--
		}
		member.AmountPaid = roundCents(member.AmountPaid + tendered)
		member.Debt = settlement.Debt
		if err := tx.Members.SaveBalance(ctx, member); err != nil {
			return err
		}

		if err := tx.Rentals.Close(ctx, rental.ID, tendered, due, now); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyReturned
			}
			return err
		}

		rental.ReturnDate = &now
		rental.AmountPaid = tendered
		rental.TotalAmount = due
		result = ReturnResult{
			Rental:    rental,
			AmountDue: due,
			Debt:      settlement.Debt,
			Refund:    settlement.Refund,
			Notice:    settlement.Notice,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateReports(ctx, s.cache, s.logger)
	s.logger.Info("book returned",
		zap.Int64("rent_id", rentalID),
		zap.Float64("amount_due", result.AmountDue),
		zap.Float64("tendered", tendered),
		zap.Float64("debt", result.Debt),
	)
	return &result, nil
}
