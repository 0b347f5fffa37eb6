package recording

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/vr-inventory/vr-inventory/internal/observability"
	"github.com/vr-inventory/vr-inventory/internal/parties"
	"github.com/vr-inventory/vr-inventory/internal/platform/httpx"
)

// PartyResolver finds and creates parties by name.
type PartyResolver interface {
	FindByName(ctx context.Context, name string) (parties.Party, error)
	Create(ctx context.Context, name string, role parties.Role) (int64, error)
}

// IdempotencyStore claims and releases request keys.
type IdempotencyStore interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// CacheInvalidator drops cached ledger rows for parties.
type CacheInvalidator interface {
	InvalidateParty(ctx context.Context, partyIDs ...string) error
}

// WarmupEnqueuer schedules a cache reload for a party.
type WarmupEnqueuer interface {
	EnqueueLedgerWarmup(ctx context.Context, partyID int64) error
}

// ServiceDeps collects the service collaborators. Only Parties and Store are required.
type ServiceDeps struct {
	Parties     PartyResolver
	Store       Store
	Idempotency IdempotencyStore
	Cache       CacheInvalidator
	Jobs        WarmupEnqueuer
	Metrics     *observability.Metrics
	Logger      *slog.Logger
}

// Service records ledger writes.
type Service struct {
	parties PartyResolver
	store   Store
	idem    IdempotencyStore
	cache   CacheInvalidator
	jobs    WarmupEnqueuer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewService builds the service.
func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		parties: deps.Parties,
		store:   deps.Store,
		idem:    deps.Idempotency,
		cache:   deps.Cache,
		jobs:    deps.Jobs,
		metrics: deps.Metrics,
		logger:  logger,
	}
}

// RecordStockMoves resolves the party by name, creating it when unknown, then
// inserts one movement per item. A party created here is kept even when the
// insert fails.
func (s *Service) RecordStockMoves(ctx context.Context, req StockMoveRequest) (StockMoveResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.ObserveWrite(operationStockMove, observability.OutcomeInvalid)
		return StockMoveResult{}, err
	}
	logger := s.logger.With(slog.String("party_name", req.PartyName), slog.String("kind", string(req.Kind)))

	partyID, err := s.resolveParty(ctx, req.PartyName, parties.RoleForKind(req.Kind))
	if err != nil {
		s.metrics.ObserveWrite(operationStockMove, observability.OutcomeError)
		logger.Error("resolve party failed", slog.Any("error", err))
		return StockMoveResult{}, &StoreError{Op: "resolve party", Err: err}
	}

	moves := make([]NewStockMove, 0, len(req.Items))
	for _, item := range req.Items {
		moves = append(moves, NewStockMove{
			Kind:         req.Kind,
			PartyID:      partyID,
			ProductID:    item.ProductID,
			Qty:          item.Qty,
			PricePerUnit: item.PricePerUnit,
			Notes:        req.Notes,
		})
	}
	if err := s.store.InsertStockMoves(ctx, moves); err != nil {
		s.metrics.ObserveWrite(operationStockMove, observability.OutcomeError)
		logger.Error("insert stock moves failed", slog.Int64("party_id", partyID), slog.Any("error", err))
		return StockMoveResult{}, &StoreError{Op: "insert stock moves", Err: err}
	}

	s.metrics.ObserveWrite(operationStockMove, observability.OutcomeOK)
	s.afterWrite(ctx, partyID)
	logger.Info("stock moves recorded", slog.Int64("party_id", partyID), slog.Int("items", len(moves)))
	return StockMoveResult{PartyID: partyID}, nil
}

// RecordSale saves a sale and its optional payment in one store procedure call.
// A non-empty idempotencyKey must be a UUID and is claimed before the call.
func (s *Service) RecordSale(ctx context.Context, req SaleRequest, idempotencyKey string) (SaleResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.ObserveWrite(operationSale, observability.OutcomeInvalid)
		return SaleResult{}, err
	}
	logger := s.logger.With(slog.String("party_name", req.PartyName))

	claimed, err := s.claim(ctx, idempotencyKey)
	if err != nil {
		return SaleResult{}, err
	}

	partyID, err := s.store.SaveSaleAndPayment(ctx, req.Params())
	if err != nil {
		s.metrics.ObserveWrite(operationSale, observability.OutcomeError)
		logger.Error("save sale failed", slog.Any("error", err))
		if claimed {
			if relErr := s.idem.Delete(ctx, idempotencyKey); relErr != nil {
				logger.Warn("release idempotency key failed", slog.Any("error", relErr))
			}
		}
		return SaleResult{}, &StoreError{Op: "save sale", Err: err}
	}

	s.metrics.ObserveWrite(operationSale, observability.OutcomeOK)
	s.afterWrite(ctx, partyID)
	logger.Info("sale recorded", slog.Int64("party_id", partyID), slog.Int("items", len(req.Items)))
	return SaleResult{Message: MsgSaleSaved, PartyID: partyID}, nil
}

func (s *Service) claim(ctx context.Context, key string) (bool, error) {
	if key == "" || s.idem == nil {
		return false, nil
	}
	if _, err := uuid.Parse(key); err != nil {
		s.metrics.ObserveWrite(operationSale, observability.OutcomeInvalid)
		return false, &ValidationError{Message: MsgBadIdempotency}
	}
	if err := s.idem.CheckAndInsert(ctx, key, idempotencyModule); err != nil {
		if isConflict(err) {
			s.metrics.ObserveWrite(operationSale, observability.OutcomeConflict)
			return false, err
		}
		s.metrics.ObserveWrite(operationSale, observability.OutcomeError)
		return false, &StoreError{Op: "claim idempotency key", Err: err}
	}
	return true, nil
}

// resolveParty returns the id of the party named name, creating it with role
// when missing. A concurrent create of the same name surfaces as
// ErrAlreadyExists and is resolved by reading the winner's row.
func (s *Service) resolveParty(ctx context.Context, name string, role parties.Role) (int64, error) {
	party, err := s.parties.FindByName(ctx, name)
	if err == nil {
		return party.ID, nil
	}
	if !errors.Is(err, parties.ErrNotFound) {
		return 0, err
	}

	id, err := s.parties.Create(ctx, name, role)
	if err == nil {
		s.metrics.PartyCreated()
		return id, nil
	}
	if !errors.Is(err, parties.ErrAlreadyExists) {
		return 0, err
	}
	party, err = s.parties.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return party.ID, nil
}

// afterWrite drops the party's cached ledger and queues a warmup. Failures
// are logged; the write itself already succeeded.
func (s *Service) afterWrite(ctx context.Context, partyID int64) {
	if s.cache != nil {
		if err := s.cache.InvalidateParty(ctx, strconv.FormatInt(partyID, 10)); err != nil {
			s.logger.Warn("invalidate ledger cache failed", slog.Int64("party_id", partyID), slog.Any("error", err))
		}
	}
	if s.jobs != nil {
		if err := s.jobs.EnqueueLedgerWarmup(ctx, partyID); err != nil {
			s.logger.Warn("enqueue ledger warmup failed", slog.Int64("party_id", partyID), slog.Any("error", err))
		}
	}
}

func isConflict(err error) bool {
	return errors.Is(err, httpx.ErrConflict)
}
