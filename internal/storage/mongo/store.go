package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yndnr/expense-tracker/internal/core/domain"
	"github.com/yndnr/expense-tracker/internal/storage"
)

// Collection names.
const (
	AccountCollection = "user-info"
	ExpenseCollection = "daily-expenses"
)

const closeTimeout = 10 * time.Second

// Store keeps accounts and expenses in MongoDB.
type Store struct {
	client   *mongo.Client
	accounts *mongo.Collection
	expenses *mongo.Collection
}

type dbAccount struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	EmailKey  string    `bson:"email_key"`
	Password  string    `bson:"password"`
	CreatedAt time.Time `bson:"created_at"`
}

// Open connects to uri, verifies the connection and ensures indexes on
// the given database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		accounts: db.Collection(AccountCollection),
		expenses: db.Collection(ExpenseCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_key_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo: create email index: %w", err)
	}

	_, err = s.expenses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo: create expense index: %w", err)
	}
	return nil
}

// Name identifies the driver in health reports.
func (s *Store) Name() string {
	return "mongo"
}

// Ping checks the connection to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the server.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// CreateAccount stores a new account. It returns storage.ErrDuplicate if the
// email or ID is taken.
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := s.accounts.InsertOne(ctx, toDBAccount(account))
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// AccountByID returns the account with the given ID.
func (s *Store) AccountByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.findAccount(ctx, bson.M{"_id": id})
}

// AccountByEmail returns the account registered under email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.findAccount(ctx, bson.M{"email_key": domain.NormalizeEmail(email)})
}

func (s *Store) findAccount(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc dbAccount
	err := s.accounts.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromDBAccount(doc), nil
}

// ListAccounts returns all accounts, newest first.
func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	cursor, err := s.accounts.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, err
	}
	var docs []dbAccount
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(docs))
	for _, doc := range docs {
		accounts = append(accounts, fromDBAccount(doc))
	}
	return accounts, nil
}

// CreateExpense stores a new expense.
func (s *Store) CreateExpense(ctx context.Context, expense *domain.ExpenseRecord) error {
	_, err := s.expenses.InsertOne(ctx, expense)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrDuplicate
	}
	return err
}

// ListExpenses returns all expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]*domain.ExpenseRecord, error) {
	cursor, err := s.expenses.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, err
	}
	expenses := []*domain.ExpenseRecord{}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

func toDBAccount(a *domain.Account) dbAccount {
	return dbAccount{
		ID:        a.ID,
		Email:     a.Email,
		EmailKey:  domain.NormalizeEmail(a.Email),
		Password:  a.PasswordHash,
		CreatedAt: a.CreatedAt,
	}
}

func fromDBAccount(d dbAccount) *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}
