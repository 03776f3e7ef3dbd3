package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/entity"
	"github.com/mirasbazaar/economy/internal/modules/ledger/repository"
	levelService "github.com/mirasbazaar/economy/internal/modules/level/service"
	notifService "github.com/mirasbazaar/economy/internal/modules/notification/service"
	searchService "github.com/mirasbazaar/economy/internal/modules/search/service"
	"github.com/mirasbazaar/economy/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// ActionSpend is the action name recorded for explicit point spends
// (redemptions). It is not part of the allocation table.
const ActionSpend = "points_spent"

type LedgerService interface {
	// Grant applies the configured rule for actionName to the user.
	// Negative rules (penalties) are clamped so the balance never goes
	// below zero; the returned entry holds the delta actually applied.
	Grant(ctx context.Context, userID uuid.UUID, actionName, referenceID string) (*entity.LedgerEntry, error)
	// GrantBonus appends an ad-hoc grant outside the allocation table,
	// used by the achievement evaluator for one-time bonuses.
	GrantBonus(ctx context.Context, userID uuid.UUID, actionName string, points int, currency entity.Currency, referenceID string) (*entity.LedgerEntry, error)
	// Spend debits exactly amount from the currency's balance, failing
	// with apperror.ErrInsufficientBalance when amount exceeds it.
	Spend(ctx context.Context, userID uuid.UUID, currency entity.Currency, amount int) (*entity.LedgerEntry, error)
	History(ctx context.Context, userID uuid.UUID, currency *entity.Currency) ([]entity.LedgerEntry, error)
	Balance(ctx context.Context, userID uuid.UUID, currency entity.Currency) (int, error)
	Balances(ctx context.Context, userID uuid.UUID) (*entity.UserBalance, error)
	// Reconcile recomputes both balances from the entry history and
	// compares them to the cached totals. A mismatch means a bug in the
	// ledger itself, not bad user input.
	Reconcile(ctx context.Context, userID uuid.UUID) error
}

type ledgerService struct {
	repo        repository.LedgerRepository
	rules       *economy.Rules
	redisClient *redis.Client
	notifSvc    notifService.NotificationService
	searchSvc   searchService.LedgerSearchService

	// Serializes grant/spend per user so balance-check-then-debit is
	// atomic within this process. Different users never contend.
	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func NewLedgerService(
	repo repository.LedgerRepository,
	rules *economy.Rules,
	redisClient *redis.Client,
	notifSvc notifService.NotificationService,
	searchSvc searchService.LedgerSearchService,
) LedgerService {
	return &ledgerService{
		repo:        repo,
		rules:       rules,
		redisClient: redisClient,
		notifSvc:    notifSvc,
		searchSvc:   searchSvc,
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *ledgerService) userLock(userID uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func (s *ledgerService) Grant(ctx context.Context, userID uuid.UUID, actionName, referenceID string) (*entity.LedgerEntry, error) {
	rule, ok := s.rules.RuleFor(actionName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownAction, actionName)
	}

	if rule.Cooldown > 0 {
		allowed, err := checkAndSetCooldown(ctx, s.redisClient, userID, actionName, rule.Cooldown)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s is on cooldown", apperror.ErrRateLimitExceeded, actionName)
		}
	}

	entry, err := s.apply(ctx, userID, actionName, rule.Points, rule.Currency, referenceID, true)
	if err != nil && rule.Cooldown > 0 {
		// The grant never happened, give the slot back
		if clearErr := clearCooldown(ctx, s.redisClient, userID, actionName); clearErr != nil {
			log.Printf("Failed to clear cooldown for user %s action %s: %v", userID, actionName, clearErr)
		}
	}
	return entry, err
}

func (s *ledgerService) GrantBonus(ctx context.Context, userID uuid.UUID, actionName string, points int, currency entity.Currency, referenceID string) (*entity.LedgerEntry, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: currency %q", apperror.ErrInvalidInput, currency)
	}
	return s.apply(ctx, userID, actionName, points, currency, referenceID, true)
}

func (s *ledgerService) Spend(ctx context.Context, userID uuid.UUID, currency entity.Currency, amount int) (*entity.LedgerEntry, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: currency %q", apperror.ErrInvalidInput, currency)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: spend amount must be positive, got %d", apperror.ErrInvalidInput, amount)
	}
	return s.apply(ctx, userID, ActionSpend, -amount, currency, "", false)
}

// apply is the single mutation path for the ledger. clampNegative decides the
// penalty semantics: grants clamp a negative delta to "at most what you have",
// spends instead reject with ErrInsufficientBalance.
func (s *ledgerService) apply(ctx context.Context, userID uuid.UUID, actionName string, points int, currency entity.Currency, referenceID string, clampNegative bool) (*entity.LedgerEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	balance, err := s.repo.BalanceByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	current := balance.SocialPoints
	if currency == entity.CurrencyMeaning {
		current = balance.MeaningPoints
	}

	applied := points
	if applied < 0 && current+applied < 0 {
		if !clampNegative {
			return nil, fmt.Errorf("%w: have %d, want %d", apperror.ErrInsufficientBalance, current, -applied)
		}
		// Penalties take at most what the user has; they never create debt.
		applied = -current
	}

	entry := &entity.LedgerEntry{
		UserID:      userID,
		ActionName:  actionName,
		Points:      applied,
		Currency:    currency,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().UTC(),
	}

	// The delta and the entry commit together: a storage failure must not
	// leave an orphan entry or an unbacked balance behind.
	if err := s.repo.RecordEntry(ctx, entry, balance.Version); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, balance, currency, applied)
	s.indexEntry(entry)

	return entry, nil
}

// afterMutation sends a level-up notification when the applied delta pushed
// the user across a threshold. Best-effort: a notification failure never
// fails the grant.
func (s *ledgerService) afterMutation(ctx context.Context, userID uuid.UUID, before *entity.UserBalance, currency entity.Currency, applied int) {
	if s.notifSvc == nil || applied <= 0 {
		return
	}

	social, meaning := before.SocialPoints, before.MeaningPoints
	previousLevel := levelService.LevelFor(s.rules.LevelThresholds, social, meaning)
	if currency == entity.CurrencyMeaning {
		meaning += applied
	} else {
		social += applied
	}
	newLevel := levelService.LevelFor(s.rules.LevelThresholds, social, meaning)

	if newLevel.Name == previousLevel.Name {
		return
	}

	notification := &entity.Notification{
		UserID:  userID,
		Type:    "level_up",
		Message: fmt.Sprintf("Congratulations! You reached %s with %d social and %d meaning points.", newLevel.Name, social, meaning),
	}
	if err := s.notifSvc.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to send level up notification to user %s: %v", userID, err)
	}
}

func (s *ledgerService) indexEntry(entry *entity.LedgerEntry) {
	if s.searchSvc == nil {
		return
	}
	if err := s.searchSvc.IndexEntry(entry); err != nil {
		log.Printf("Failed to index ledger entry %d: %v", entry.ID, err)
	}
}

func (s *ledgerService) History(ctx context.Context, userID uuid.UUID, currency *entity.Currency) ([]entity.LedgerEntry, error) {
	return s.repo.EntriesByUser(ctx, userID, currency)
}

func (s *ledgerService) Balance(ctx context.Context, userID uuid.UUID, currency entity.Currency) (int, error) {
	balance, err := s.repo.BalanceByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if currency == entity.CurrencyMeaning {
		return balance.MeaningPoints, nil
	}
	return balance.SocialPoints, nil
}

func (s *ledgerService) Balances(ctx context.Context, userID uuid.UUID) (*entity.UserBalance, error) {
	return s.repo.BalanceByUser(ctx, userID)
}

func (s *ledgerService) Reconcile(ctx context.Context, userID uuid.UUID) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	balance, err := s.repo.BalanceByUser(ctx, userID)
	if err != nil {
		return err
	}

	socialSum, err := s.repo.SumPoints(ctx, userID, entity.CurrencySocial)
	if err != nil {
		return err
	}
	meaningSum, err := s.repo.SumPoints(ctx, userID, entity.CurrencyMeaning)
	if err != nil {
		return err
	}

	if balance.SocialPoints != socialSum || balance.MeaningPoints != meaningSum {
		return fmt.Errorf("%w: ledger reconciliation mismatch for user %s: cached social=%d meaning=%d, history social=%d meaning=%d",
			apperror.ErrInternal, userID, balance.SocialPoints, balance.MeaningPoints, socialSum, meaningSum)
	}

	return nil
}
