package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
)

const cardColumns = `id, user_id, name, event_date, venue, squares, created_at, updated_at`

var sortColumns = map[string]string{
	store.SortCreatedAt: "created_at",
	store.SortUpdatedAt: "updated_at",
	store.SortName:      "name",
	store.SortDate:      "event_date",
	store.SortVenue:     "venue",
}

type cardsRepo struct {
	q dbtx
}

func scanCard(row scanner) (domain.BingoCard, error) {
	var (
		c                    domain.BingoCard
		squares              string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Date, &c.Venue, &squares, &createdAt, &updatedAt); err != nil {
		return domain.BingoCard{}, err
	}
	if err := json.Unmarshal([]byte(squares), &c.Squares); err != nil {
		return domain.BingoCard{}, fmt.Errorf("decode squares of card %s: %w", c.ID, err)
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func encodeSquares(sq []string) (string, error) {
	if sq == nil {
		sq = []string{}
	}
	b, err := json.Marshal(sq)
	return string(b), err
}

func (r *cardsRepo) CreateCard(ctx context.Context, c domain.BingoCard) error {
	squares, err := encodeSquares(c.Squares)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx,
		`INSERT INTO bingo_cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Date, c.Venue, squares, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	return mapConflict(err)
}

func (r *cardsRepo) GetCard(ctx context.Context, id, ownerID string) (domain.BingoCard, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM bingo_cards WHERE id = ? AND user_id = ?`, id, ownerID)
	c, err := scanCard(row)
	if err != nil {
		return domain.BingoCard{}, mapNotFound(err)
	}
	return c, nil
}

func (r *cardsRepo) ListCards(ctx context.Context, ownerID string, opts store.ListOptions) ([]domain.BingoCard, error) {
	col, ok := sortColumns[opts.Sort]
	if !ok {
		col = sortColumns[store.SortCreatedAt]
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	// col comes from the whitelist above.
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM bingo_cards WHERE user_id = ?
		 ORDER BY `+col+` DESC, id DESC LIMIT ? OFFSET ?`,
		ownerID, limit, max(opts.Skip, 0),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []domain.BingoCard{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardsRepo) ReplaceCard(ctx context.Context, c domain.BingoCard) error {
	squares, err := encodeSquares(c.Squares)
	if err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE bingo_cards SET name = ?, event_date = ?, venue = ?, squares = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, c.Date, c.Venue, squares, toMillis(c.UpdatedAt), c.ID, c.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *cardsRepo) DeleteCard(ctx context.Context, id, ownerID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM bingo_cards WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
