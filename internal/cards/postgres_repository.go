package cards

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfman30/connection-card/internal/visitor"
)

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores cards in the connection_cards table.
type PostgresRepository struct {
	pool pgQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("cards: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q pgQuerier) *PostgresRepository {
	if q == nil {
		panic("cards: querier required")
	}
	return &PostgresRepository{pool: q}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, card *Card) error {
	id := card.ID
	if id == "" {
		id = uuid.NewString()
	}
	query := `
		INSERT INTO connection_cards (
			id, first_name, last_name, email, address, city_or_region, age_range,
			prayer_request, membership_interest, welcome_message, prayer, generated, source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	v := card.Visitor
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		v.FirstName,
		v.LastName,
		v.Email,
		v.Address,
		v.CityOrRegion,
		v.AgeRange.String(),
		v.PrayerRequest,
		v.MembershipInterest.String(),
		card.WelcomeMessage,
		card.Prayer,
		card.Generated,
		card.Source,
	).Scan(&createdAt); err != nil {
		return fmt.Errorf("cards: insert failed: %w", err)
	}

	card.ID = id
	card.CreatedAt = createdAt
	return nil
}

// List returns cards newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Card, error) {
	var (
		where []string
		args  []any
	)
	if filter.MembershipInterest != nil {
		args = append(args, filter.MembershipInterest.String())
		where = append(where, fmt.Sprintf("membership_interest = $%d", len(args)))
	}

	query := `
		SELECT id, first_name, last_name, email, address, city_or_region, age_range,
			prayer_request, membership_interest, welcome_message, prayer, generated, source, created_at
		FROM connection_cards`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cards: list failed: %w", err)
	}
	defer rows.Close()

	cards := []*Card{}
	for rows.Next() {
		var (
			card               Card
			ageRange, interest string
		)
		if err := rows.Scan(
			&card.ID,
			&card.Visitor.FirstName,
			&card.Visitor.LastName,
			&card.Visitor.Email,
			&card.Visitor.Address,
			&card.Visitor.CityOrRegion,
			&ageRange,
			&card.Visitor.PrayerRequest,
			&interest,
			&card.WelcomeMessage,
			&card.Prayer,
			&card.Generated,
			&card.Source,
			&card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("cards: scan failed: %w", err)
		}
		if card.Visitor.AgeRange, err = visitor.ParseAgeRange(ageRange); err != nil {
			return nil, fmt.Errorf("cards: card %s: %w", card.ID, err)
		}
		if card.Visitor.MembershipInterest, err = visitor.ParseMembershipInterest(interest); err != nil {
			return nil, fmt.Errorf("cards: card %s: %w", card.ID, err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cards: list failed: %w", err)
	}
	return cards, nil
}
