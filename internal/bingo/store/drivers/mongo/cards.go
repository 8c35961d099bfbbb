package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sortFields = map[string]string{
	store.SortCreatedAt: "created_at",
	store.SortUpdatedAt: "updated_at",
	store.SortName:      "name",
	store.SortDate:      "date",
	store.SortVenue:     "venue",
}

type cardDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Name      string    `bson:"name"`
	Date      string    `bson:"date"`
	Venue     string    `bson:"venue"`
	Squares   []string  `bson:"squares"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCardDoc(c domain.BingoCard) cardDoc {
	sq := c.Squares
	if sq == nil {
		sq = []string{}
	}
	return cardDoc{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Date:      c.Date,
		Venue:     c.Venue,
		Squares:   sq,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d cardDoc) domain() domain.BingoCard {
	return domain.BingoCard{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		Date:      d.Date,
		Venue:     d.Venue,
		Squares:   d.Squares,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func owned(id, ownerID string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "user_id", Value: ownerID}}
}

type cardsRepo struct {
	c *mongo.Collection
}

func (r *cardsRepo) CreateCard(ctx context.Context, c domain.BingoCard) error {
	_, err := r.c.InsertOne(ctx, toCardDoc(c))
	return mapConflict(err)
}

func (r *cardsRepo) GetCard(ctx context.Context, id, ownerID string) (domain.BingoCard, error) {
	var doc cardDoc
	if err := r.c.FindOne(ctx, owned(id, ownerID)).Decode(&doc); err != nil {
		return domain.BingoCard{}, mapNotFound(err)
	}
	return doc.domain(), nil
}

func (r *cardsRepo) ListCards(ctx context.Context, ownerID string, opts store.ListOptions) ([]domain.BingoCard, error) {
	field, ok := sortFields[opts.Sort]
	if !ok {
		field = sortFields[store.SortCreatedAt]
	}
	find := options.Find().
		SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(max(opts.Skip, 0)))
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}

	cur, err := r.c.Find(ctx, bson.D{{Key: "user_id", Value: ownerID}}, find)
	if err != nil {
		return nil, err
	}
	var docs []cardDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	cards := make([]domain.BingoCard, 0, len(docs))
	for _, d := range docs {
		cards = append(cards, d.domain())
	}
	return cards, nil
}

func (r *cardsRepo) ReplaceCard(ctx context.Context, c domain.BingoCard) error {
	doc := toCardDoc(c)
	res, err := r.c.UpdateOne(ctx, owned(c.ID, c.UserID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "date", Value: doc.Date},
		{Key: "venue", Value: doc.Venue},
		{Key: "squares", Value: doc.Squares},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *cardsRepo) DeleteCard(ctx context.Context, id, ownerID string) error {
	res, err := r.c.DeleteOne(ctx, owned(id, ownerID))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
