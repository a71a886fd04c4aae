package users

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

const (
	defaultDatabase       = "merkle_ai"
	usersCollection       = "users"
	leaderboardCollection = "leaderboard"
	connectTimeout        = 10 * time.Second
)

// MongoStore is the MongoDB-backed account store.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection. An empty
// database name selects the default.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(database),
	}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ListActiveByTimeframe(ctx context.Context, tf types.Timeframe) ([]types.UserData, error) {
	filter := bson.M{
		"ai_agent":                  true,
		"status_ai_agent":           true,
		"ai_agent_config.timeframe": string(tf),
	}
	return s.findUsers(ctx, filter)
}

func (s *MongoStore) ListAgents(ctx context.Context) ([]types.UserData, error) {
	return s.findUsers(ctx, bson.M{"ai_agent": true})
}

func (s *MongoStore) findUsers(ctx context.Context, filter bson.M) ([]types.UserData, error) {
	cursor, err := s.db.Collection(usersCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []types.UserData
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) SetRunning(ctx context.Context, chatID int64, running bool) error {
	_, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{"$set": bson.M{"status_ai_agent": running}},
	)
	if err != nil {
		return fmt.Errorf("update running flag for user %d: %w", chatID, err)
	}
	return nil
}

// leaderboardDoc is one window's full leaderboard stored as a single document.
type leaderboardDoc struct {
	Window    string                   `bson:"_id"`
	UpdatedAt time.Time                `bson:"updated_at"`
	Entries   []types.LeaderboardEntry `bson:"entries"`
}

func (s *MongoStore) SaveLeaderboard(ctx context.Context, window string, entries []types.LeaderboardEntry) error {
	doc := leaderboardDoc{
		Window:    window,
		UpdatedAt: time.Now(),
		Entries:   entries,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(leaderboardCollection).ReplaceOne(ctx, bson.M{"_id": window}, doc, opts)
	if err != nil {
		return fmt.Errorf("save leaderboard %s: %w", window, err)
	}
	return nil
}

func (s *MongoStore) LoadLeaderboard(ctx context.Context, window string) ([]types.LeaderboardEntry, error) {
	var doc leaderboardDoc
	err := s.db.Collection(leaderboardCollection).FindOne(ctx, bson.M{"_id": window}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load leaderboard %s: %w", window, err)
	}
	return doc.Entries, nil
}
