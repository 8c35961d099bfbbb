package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/billybingo/internal/bingo/domain"
	"github.com/aussiebroadwan/billybingo/internal/bingo/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	cardsCollection = "bingo_cards"

	emailIndex = "users_email_key"
	nameIndex  = "users_name_key"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri and uses database dbName. Call ApplyMigrations
// before use.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetAppName("billybingo").
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Users() store.Users {
	return &usersRepo{users: s.db.Collection(usersCollection), cards: s.db.Collection(cardsCollection)}
}

func (s *Store) Cards() store.Cards {
	return &cardsRepo{c: s.db.Collection(cardsCollection)}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// ApplyMigrations creates the unique indexes and the card collection
// validator. Both operations are idempotent.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetName(nameIndex)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("users_created_idx")},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	if err := s.ensureCardValidator(ctx); err != nil {
		return err
	}

	_, err = s.db.Collection(cardsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("bingo_cards_user_created_idx"),
	})
	if err != nil {
		return fmt.Errorf("create card indexes: %w", err)
	}
	return nil
}

func cardSchema() bson.M {
	return bson.M{"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"_id", "user_id", "name", "squares", "created_at", "updated_at"},
		"properties": bson.M{
			"name":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": domain.CardNameMaxLen},
			"date":  bson.M{"bsonType": "string", "maxLength": domain.CardDateMaxLen},
			"venue": bson.M{"bsonType": "string", "maxLength": domain.CardVenueMaxLen},
			"squares": bson.M{
				"bsonType": "array",
				"minItems": domain.SquareCount,
				"maxItems": domain.SquareCount,
				"items":    bson.M{"bsonType": "string", "maxLength": domain.SquareMaxLen},
			},
		},
	}}
}

func (s *Store) ensureCardValidator(ctx context.Context) error {
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: cardsCollection}})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	if len(names) == 0 {
		err = s.db.CreateCollection(ctx, cardsCollection, options.CreateCollection().SetValidator(cardSchema()))
	} else {
		err = s.db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: cardsCollection},
			{Key: "validator", Value: cardSchema()},
		}).Err()
	}
	if err != nil {
		return fmt.Errorf("card validator: %w", err)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict turns a duplicate key error into *store.ConflictError using
// the index name in the server message.
func mapConflict(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, emailIndex):
		return &store.ConflictError{Field: store.FieldEmail}
	case strings.Contains(msg, nameIndex):
		return &store.ConflictError{Field: store.FieldName}
	default:
		return store.ErrAlreadyExists
	}
}
