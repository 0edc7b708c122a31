package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/vipinyadav01/zero-fashion/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	fmt.Println("Connected to postgres!")
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

const orderColumns = `id, owner_id, items, amount, address, status, payment_method, paid, gateway_ref, created_at, updated_at`

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}
	addressJSON, err := json.Marshal(order.Address)
	if err != nil {
		return fmt.Errorf("failed to marshal order address: %w", err)
	}

	query := `INSERT INTO orders (id, owner_id, items, amount, address, status, payment_method, paid, gateway_ref, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.OwnerID,
		itemsJSON,
		order.Amount,
		addressJSON,
		order.Status,
		order.PaymentMethod,
		order.Paid,
		order.GatewayRef)

	if insertErr != nil {
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *Repository) GetOrderByGatewayRef(ctx context.Context, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_ref = $1`
	return r.queryOne(ctx, query, ref)
}

func (r *Repository) queryOne(ctx context.Context, query string, arg interface{}) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	order, err := scanOrder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrdersByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryMany(ctx, query, ownerID)
}

func (r *Repository) ListAllOrders(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

func (r *Repository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var result []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

func scanOrder(scan func(dest ...interface{}) error) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON, addressJSON []byte
	var gatewayRef sql.NullString

	err := scan(
		&order.ID,
		&order.OwnerID,
		&itemsJSON,
		&order.Amount,
		&addressJSON,
		&order.Status,
		&order.PaymentMethod,
		&order.Paid,
		&gatewayRef,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
		return nil, fmt.Errorf("unmarshal order address: %w", err)
	}
	order.GatewayRef = gatewayRef.String
	return &order, nil
}

func (r *Repository) SetGatewayRef(ctx context.Context, id uuid.UUID, ref string) error {
	query := `UPDATE orders SET gateway_ref = $2, updated_at = NOW() WHERE id = $1 AND gateway_ref IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, ref)
	if err != nil {
		return fmt.Errorf("set gateway ref: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set gateway ref rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// AdvanceStatus moves the order from one known status to another. The guard
// on the current status makes concurrent operator updates lose cleanly
// instead of clobbering each other.
func (r *Repository) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error {
	applied, err := r.transition(ctx,
		`UPDATE orders SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2 RETURNING id`,
		[]interface{}{id, from, to},
		eventTypeFor(to))
	if err != nil {
		return err
	}
	if !applied {
		return ErrStatusConflict
	}
	return nil
}

// Finalize confirms a Pending order directly (the cash-on-delivery path).
func (r *Repository) Finalize(ctx context.Context, id uuid.UUID, markPaid bool) (bool, error) {
	return r.transition(ctx,
		`UPDATE orders SET status = $2, paid = $3, updated_at = NOW() WHERE id = $1 AND status = $4 RETURNING id`,
		[]interface{}{id, domain.OrderStatusPlaced, markPaid, domain.OrderStatusPending},
		EventOrderPlaced)
}

// ConfirmByGatewayRef marks the order behind a gateway reference paid and
// placed. Returns false without touching anything when the transition was
// already applied for this reference.
func (r *Repository) ConfirmByGatewayRef(ctx context.Context, ref string) (bool, error) {
	return r.transition(ctx,
		`UPDATE orders SET status = $2, paid = TRUE, updated_at = NOW()
		 WHERE gateway_ref = $1 AND status = $3 AND paid = FALSE RETURNING id`,
		[]interface{}{ref, domain.OrderStatusPlaced, domain.OrderStatusPending},
		EventOrderPlaced)
}

// FailByGatewayRef moves a still-Pending order to Payment Failed. The record
// is retained for audit; nothing is ever deleted on rejection.
func (r *Repository) FailByGatewayRef(ctx context.Context, ref string) (bool, error) {
	return r.transition(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW()
		 WHERE gateway_ref = $1 AND status = $3 RETURNING id`,
		[]interface{}{ref, domain.OrderStatusPaymentFailed, domain.OrderStatusPending},
		EventPaymentFailed)
}

func (r *Repository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3 RETURNING id`,
		[]interface{}{id, domain.OrderStatusPaymentFailed, domain.OrderStatusPending},
		EventPaymentFailed)
}

// transition runs a guarded status update and, when it applied, writes the
// matching outbox event in the same transaction. Every query must end with
// RETURNING id so the event is keyed by the order regardless of whether the
// update itself was keyed by id or by gateway ref.
func (r *Repository) transition(ctx context.Context, query string, args []interface{}, eventType string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID uuid.UUID
	err = tx.QueryRowContext(ctx, query, args...).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	aggregateID := orderID.String()

	payload, err := json.Marshal(map[string]interface{}{
		"aggregate_id": aggregateID,
		"event_type":   eventType,
		"occurred_at":  time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_outbox (aggregate_id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())`,
		aggregateID, eventType, payload)
	if err != nil {
		return false, fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

func eventTypeFor(to domain.OrderStatus) string {
	switch to {
	case domain.OrderStatusCancelled:
		return EventOrderCancelled
	case domain.OrderStatusPaymentFailed:
		return EventPaymentFailed
	default:
		return EventStatusChanged
	}
}

func (r *Repository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload, created_at
	          FROM order_outbox WHERE processed = FALSE ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.AggregateID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkEventAsProcessed(ctx context.Context, id int64) error {
	query := `UPDATE order_outbox SET processed = TRUE, processed_at = NOW() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark event as processed: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
