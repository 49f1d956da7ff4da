package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/gouravdhdb/storefront/internal/port"
)

// blobKV is the raw byte-level contract the storage backends implement.
// get reports absence through its second return value.
type blobKV interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	put(ctx context.Context, key string, value []byte) error
	del(ctx context.Context, key string) error
}

// kvStore adapts a blobKV into the typed Store port. A blob that fails to
// decode is treated as absent: the caller gets empty defaults, never an
// error it would have to recover from.
type kvStore struct {
	kv blobKV
}

var _ port.Store = (*kvStore)(nil)

func (s *kvStore) LoadCart(ctx context.Context) ([]domain.CartLine, error) {
	var rows []cartLineRow
	ok, err := s.getJSON(ctx, keyCart, &rows)
	if err != nil {
		return nil, fmt.Errorf("getJSON[%s]: %w", keyCart, err)
	}
	if !ok {
		return nil, nil
	}

	lines, err := mapCartRowsToDomain(rows)
	if err != nil {
		// malformed stored value, fail closed to an empty cart
		log.Printf("store: discarding malformed %s blob: %v", keyCart, err)
		return nil, nil
	}

	return lines, nil
}

func (s *kvStore) SaveCart(ctx context.Context, lines []domain.CartLine) error {
	return s.putJSON(ctx, keyCart, mapCartToRows(lines))
}

func (s *kvStore) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	var rows []orderRow
	ok, err := s.getJSON(ctx, keyOrders, &rows)
	if err != nil {
		return nil, fmt.Errorf("getJSON[%s]: %w", keyOrders, err)
	}
	if !ok {
		return nil, nil
	}

	orders, err := mapOrderRowsToDomain(rows)
	if err != nil {
		log.Printf("store: discarding malformed %s blob: %v", keyOrders, err)
		return nil, nil
	}

	return orders, nil
}

func (s *kvStore) SaveOrders(ctx context.Context, orders []domain.Order) error {
	return s.putJSON(ctx, keyOrders, mapOrdersToRows(orders))
}

func (s *kvStore) LoadDarkMode(ctx context.Context) (bool, error) {
	var on bool
	ok, err := s.getJSON(ctx, keyDarkMode, &on)
	if err != nil {
		return false, fmt.Errorf("getJSON[%s]: %w", keyDarkMode, err)
	}
	if !ok {
		return false, nil
	}
	return on, nil
}

func (s *kvStore) SaveDarkMode(ctx context.Context, on bool) error {
	return s.putJSON(ctx, keyDarkMode, on)
}

func (s *kvStore) LoadDraft(ctx context.Context) (*domain.Order, error) {
	var row orderRow
	ok, err := s.getJSON(ctx, keyDraft, &row)
	if err != nil {
		return nil, fmt.Errorf("getJSON[%s]: %w", keyDraft, err)
	}
	if !ok {
		return nil, nil
	}

	order, err := mapOrderRowToDomain(row)
	if err != nil {
		log.Printf("store: discarding malformed %s blob: %v", keyDraft, err)
		return nil, nil
	}

	return &order, nil
}

func (s *kvStore) SaveDraft(ctx context.Context, order domain.Order) error {
	return s.putJSON(ctx, keyDraft, mapOrderToRow(order))
}

func (s *kvStore) ClearDraft(ctx context.Context) error {
	if err := s.kv.del(ctx, keyDraft); err != nil {
		return fmt.Errorf("kv.del[%s]: %w", keyDraft, err)
	}
	return nil
}

// getJSON reads and decodes the blob under key. Decode failures count as
// absence, matching how the browser original shrugged off corrupted
// localStorage entries.
func (s *kvStore) getJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.kv.get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv.get: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("store: discarding malformed %s blob: %v", key, err)
		return false, nil
	}

	return true, nil
}

func (s *kvStore) putJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json.Marshal[%s]: %w", key, err)
	}

	if err := s.kv.put(ctx, key, raw); err != nil {
		return fmt.Errorf("kv.put[%s]: %w", key, err)
	}

	return nil
}
