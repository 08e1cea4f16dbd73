package config

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

// Collection names.
const (
	UsersCollection         = "users"
	EventsCollection        = "events"
	AttendancesCollection   = "attendances"
	PostsCollection         = "posts"
	LikesCollection         = "likes"
	NotificationsCollection = "notifications"
	TalentsCollection       = "talents"
)

// ConnectDB connects to MongoDB and sets the global Client and DB variables.
// It reads MONGO_URI and MONGO_DB from the environment.
func ConnectDB() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		logrus.Fatal("MONGO_URI not set in env")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		logrus.Fatal("MONGO_DB not set in env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		logrus.Fatalf("mongo.Connect error: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		logrus.Fatalf("mongo.Ping error: %v", err)
	}

	Client = client
	DB = client.Database(dbName)

	if err := ensureIndexes(ctx, DB); err != nil {
		logrus.Fatalf("index bootstrap error: %v", err)
	}

	logrus.WithField("db", dbName).Info("connected to MongoDB")
}

// ensureIndexes creates the uniqueness constraints the data model relies on:
// one attendance record per (event, user), one like per (post, user), and
// case-insensitive unique usernames (strength-2 collation).
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AttendancesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(LikesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "createdBy", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	})
	return err
}
