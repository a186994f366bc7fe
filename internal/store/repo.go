package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"demo/grouporders/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type Repo struct {
	Pool PgxIface
}

type PgxIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func New(pool PgxIface) *Repo { return &Repo{Pool: pool} }

const orderColumns = `id, restaurant, leader_id, status, created_at, closed_at, close_time`

func (r *Repo) CreateGroupOrder(ctx context.Context, restaurant, leaderID string, closeTime time.Time) (model.GroupOrder, error) {
	o := model.GroupOrder{
		ID:         uuid.NewString(),
		Restaurant: restaurant,
		LeaderID:   leaderID,
		Status:     model.StatusOpen,
		CreatedAt:  time.Now().UTC(),
		CloseTime:  &closeTime,
	}

	// The partial unique index on (restaurant) WHERE status='open' makes
	// this insert the open-uniqueness check; no read-then-write.
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO group_orders (id, restaurant, leader_id, status, created_at, close_time)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, o.ID, o.Restaurant, o.LeaderID, o.Status, o.CreatedAt, o.CloseTime)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			leader, lerr := r.openLeader(ctx, restaurant)
			if lerr != nil {
				return model.GroupOrder{}, fmt.Errorf("create group order: %w", err)
			}
			return model.GroupOrder{}, &model.ConflictError{Restaurant: restaurant, LeaderID: leader}
		}
		return model.GroupOrder{}, fmt.Errorf("create group order: %w", err)
	}
	return o, nil
}

func (r *Repo) openLeader(ctx context.Context, restaurant string) (string, error) {
	var leader string
	err := r.Pool.QueryRow(ctx, `
		SELECT leader_id FROM group_orders WHERE restaurant=$1 AND status=$2
	`, restaurant, model.StatusOpen).Scan(&leader)
	if err != nil {
		return "", err
	}
	return leader, nil
}

func (r *Repo) GetGroupOrder(ctx context.Context, id string) (model.GroupOrder, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM group_orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GroupOrder{}, model.ErrNotFound
		}
		return model.GroupOrder{}, err
	}
	return o, nil
}

func (r *Repo) CloseGroupOrder(ctx context.Context, id string) (model.GroupOrder, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE group_orders SET status=$2, closed_at=$3
		WHERE id=$1 AND status=$4
		RETURNING `+orderColumns+`
	`, id, model.StatusClosed, time.Now().UTC(), model.StatusOpen)

	o, err := scanOrder(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.GroupOrder{}, err
	}

	// Nothing transitioned: either the order is gone or a close already
	// won. The earlier closed_at stays untouched either way.
	existing, gerr := r.GetGroupOrder(ctx, id)
	if gerr != nil {
		return model.GroupOrder{}, gerr
	}
	return existing, model.ErrAlreadyClosed
}

func (r *Repo) SetCloseTime(ctx context.Context, id string, closeTime time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE group_orders SET close_time=$2 WHERE id=$1 AND status=$3
	`, id, closeTime.UTC(), model.StatusOpen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, gerr := r.GetGroupOrder(ctx, id); gerr != nil {
			return gerr
		}
		return model.ErrGroupClosed
	}
	return nil
}

func (r *Repo) ReplaceUserItems(ctx context.Context, groupOrderID, userID string, items []string) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Row lock so a concurrent close and this write serialize; a close
	// that commits first makes the status guard fail the write.
	var status model.Status
	err = tx.QueryRow(ctx, `SELECT status FROM group_orders WHERE id=$1 FOR UPDATE`, groupOrderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return err
	}
	if status != model.StatusOpen {
		return model.ErrGroupClosed
	}

	if len(items) == 0 {
		if _, err = tx.Exec(ctx, `
			DELETE FROM user_orders WHERE group_order_id=$1 AND user_id=$2
		`, groupOrderID, userID); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO user_orders (group_order_id, user_id, items, created_at, updated_at)
		VALUES ($1,$2,$3,now(),now())
		ON CONFLICT (group_order_id, user_id) DO UPDATE SET
		  items=EXCLUDED.items, updated_at=now()
	`, groupOrderID, userID, raw)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) GetUserItems(ctx context.Context, groupOrderID, userID string) ([]string, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `
		SELECT items FROM user_orders WHERE group_order_id=$1 AND user_id=$2
	`, groupOrderID, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}

func (r *Repo) ListUserOrdersFor(ctx context.Context, groupOrderID string) (map[string][]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT user_id, items FROM user_orders WHERE group_order_id=$1 ORDER BY created_at
	`, groupOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var userID string
		var raw []byte
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, err
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("unmarshal items for %s: %w", userID, err)
		}
		out[userID] = items
	}
	return out, rows.Err()
}

func (r *Repo) ListOpenOrders(ctx context.Context) ([]model.GroupOrder, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+` FROM group_orders WHERE status=$1 ORDER BY created_at
	`, model.StatusOpen)
}

func (r *Repo) ListClosedOrdersByLeader(ctx context.Context, leaderID string) ([]model.GroupOrder, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+` FROM group_orders
		WHERE leader_id=$1 AND status=$2 ORDER BY closed_at DESC
	`, leaderID, model.StatusClosed)
}

func (r *Repo) FindExpired(ctx context.Context, now time.Time) ([]model.GroupOrder, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+` FROM group_orders
		WHERE status=$1 AND close_time IS NOT NULL AND close_time <= $2
		ORDER BY close_time
	`, model.StatusOpen, now.UTC())
}

func (r *Repo) listOrders(ctx context.Context, sql string, args ...any) ([]model.GroupOrder, error) {
	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GroupOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (model.GroupOrder, error) {
	var o model.GroupOrder
	err := row.Scan(&o.ID, &o.Restaurant, &o.LeaderID, &o.Status, &o.CreatedAt, &o.ClosedAt, &o.CloseTime)
	if err != nil {
		return model.GroupOrder{}, err
	}
	return o, nil
}
