package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskvest/internal/money"
	"taskvest/internal/store"
	"taskvest/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// PackageService handles the purchase-to-expiry lifecycle of catalog
// packages a user buys.
type PackageService struct {
	txRunner     TxRunner
	packages     PackageStore
	userPackages UserPackageStore
	ledger       LedgerApplier
	hub          BalanceHub
	log          zerolog.Logger
	now          func() time.Time
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func NewPackageService(txRunner TxRunner, packages PackageStore, userPackages UserPackageStore, ledger LedgerApplier, hub BalanceHub, log zerolog.Logger) *PackageService {
	return &PackageService{
		txRunner:     txRunner,
		packages:     packages,
		userPackages: userPackages,
		ledger:       ledger,
		hub:          hub,
		log:          log,
		now:          time.Now,
	}
}

type PurchaseResult struct {
	UserPackageID string
	PackageName   string
	ExpiryDate    time.Time
	BalanceAfter  int64
}

// Purchase debits the package price and opens a new UserPackage lifecycle.
// Duplicate catalog packages are allowed; every purchase is independent.
func (s *PackageService) Purchase(ctx context.Context, userID, packageID string) (PurchaseResult, error) {
	var result PurchaseResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		pkg, err := s.packages.Get(ctx, tx, packageID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if !pkg.IsActive {
			return ErrPackageInactive
		}
		applied, err := s.ledger.Apply(ctx, tx, ApplyInput{
			UserID:      userID,
			Kind:        KindPackagePurchase,
			Amount:      pkg.Price,
			Description: fmt.Sprintf("Purchased %s", pkg.Name),
			ReferenceID: &pkg.ID,
		})
		if err != nil {
			return err
		}
		purchaseDate := s.now()
		expiryDate := purchaseDate.AddDate(0, 0, pkg.DurationDays)
		userPackageID := uuid.NewString()
		if err := s.userPackages.Create(ctx, tx, store.UserPackageInput{
			ID:           userPackageID,
			UserID:       userID,
			PackageID:    packageID,
			PurchaseDate: purchaseDate,
			ExpiryDate:   expiryDate,
		}); err != nil {
			return err
		}
		result = PurchaseResult{
			UserPackageID: userPackageID,
			PackageName:   pkg.Name,
			ExpiryDate:    expiryDate,
			BalanceAfter:  applied.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance: money.FormatMinor(result.BalanceAfter),
	})
	return result, nil
}

// IsExpired is the single definition of package expiry: a package lapses the
// instant now reaches expiry_date.
func IsExpired(up store.UserPackage, now time.Time) bool {
	return !now.Before(up.ExpiryDate)
}

// SweepExpired deactivates lapsed purchases. Expired rows stay queryable for
// historical earnings; they just stop accepting task completions.
func (s *PackageService) SweepExpired(ctx context.Context) (int64, error) {
	var deactivated int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		count, err := s.userPackages.DeactivateExpired(ctx, tx, s.now())
		if err != nil {
			return err
		}
		deactivated = count
		return nil
	})
	if err != nil {
		return 0, err
	}
	if deactivated > 0 {
		s.log.Info().Int64("count", deactivated).Msg("deactivated expired packages")
	}
	return deactivated, nil
}
