package parties

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/vr-inventory/vr-inventory/internal/ledger"
	"github.com/vr-inventory/vr-inventory/internal/ledgercache"
)

// Service loads the directory and party detail, caching raw rows in Redis.
type Service struct {
	repo   Repository
	cache  *ledgercache.Cache
	logger *slog.Logger
}

// NewService constructs the service. cache may be nil.
func NewService(repo Repository, cache *ledgercache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Directory loads every party with its totals.
func (s *Service) Directory(ctx context.Context) (Directory, error) {
	var list []PartyWithTotals
	err := s.cache.FetchJSON(ctx, ledgercache.DirectoryKey(), &list, func(ctx context.Context) (any, error) {
		rows, err := s.repo.ListWithTotals(ctx)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []PartyWithTotals{}
		}
		return rows, nil
	})
	if err != nil {
		return Directory{}, err
	}
	return NewDirectory(list), nil
}

// Detail loads a party and its stock moves and payments.
func (s *Service) Detail(ctx context.Context, id int64) (Detail, error) {
	var detail Detail
	err := s.cache.FetchJSON(ctx, ledgercache.PartyKey(strconv.FormatInt(id, 10)), &detail, func(ctx context.Context) (any, error) {
		return s.loadDetail(ctx, id)
	})
	return detail, err
}

// Ledger loads a party and aggregates its rows.
func (s *Service) Ledger(ctx context.Context, id int64) (Party, ledger.Ledger, error) {
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return Party{}, ledger.Ledger{}, err
	}
	l, err := detail.Ledger()
	if err != nil {
		return Party{}, ledger.Ledger{}, err
	}
	return detail.Party, l, nil
}

// Warm repopulates the cached detail of a party after a write.
func (s *Service) Warm(ctx context.Context, id int64) error {
	if err := s.cache.InvalidateParty(ctx, strconv.FormatInt(id, 10)); err != nil {
		s.logger.Warn("ledger cache invalidate failed", slog.Int64("party_id", id), slog.Any("error", err))
	}
	_, err := s.Detail(ctx, id)
	return err
}

func (s *Service) loadDetail(ctx context.Context, id int64) (Detail, error) {
	party, err := s.repo.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Party: party}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		moves, err := s.repo.ListStockMoves(gctx, id)
		detail.Moves = moves
		return err
	})
	g.Go(func() error {
		payments, err := s.repo.ListPayments(gctx, id)
		detail.Payments = payments
		return err
	})
	if err := g.Wait(); err != nil {
		return Detail{}, err
	}
	return detail, nil
}
