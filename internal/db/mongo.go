package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/CondoLedger/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ledgerCollection = "ledger"
	ledgerDocumentID = "ledger"
)

type ledgerDocument struct {
	ID     string        `bson:"_id"`
	Ledger models.Ledger `bson:",inline"`
}

// MongoBackend keeps the ledger as a single MongoDB document.
type MongoBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongoDB opens the connection and verifies it with a ping.
func ConnectMongoDB(ctx context.Context, uri, dbName string) (*MongoBackend, error) {
	clientOptions := options.Client().ApplyURI(uri)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoBackend{
		client:     client,
		collection: client.Database(dbName).Collection(ledgerCollection),
	}, nil
}

func (m *MongoBackend) Load(ctx context.Context) (*models.Ledger, error) {
	var doc ledgerDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": ledgerDocumentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Ledger, nil
}

func (m *MongoBackend) Save(ctx context.Context, l *models.Ledger) error {
	doc := ledgerDocument{ID: ledgerDocumentID, Ledger: *l}
	_, err := m.collection.ReplaceOne(
		ctx,
		bson.M{"_id": ledgerDocumentID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (m *MongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
