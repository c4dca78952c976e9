package store

import (
	"context"

	"github.com/animalet/properties-go/pkg/properties"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds configuration for a MongoDB-backed property store
type MongoConfig struct {
	// URI is a MongoDB connection string, e.g. "mongodb://localhost:27017".
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"` // defaults to "properties"
}

// Validate checks if the MongoConfig has all required fields set
func (m MongoConfig) Validate() error {
	if m.URI == "" {
		return errors.New("MongoDB URI is required")
	}
	if m.Database == "" {
		return errors.New("MongoDB database is required")
	}
	return nil
}

// CreateClient creates a MongoDB client from this config.
func (m MongoConfig) CreateClient() (*mongo.Client, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(m.URI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}
	return client, nil
}

// Mongo upserts properties into a collection, one document per key:
// {_id: <key>, value: <value>}.
type Mongo struct {
	collection *mongo.Collection
}

// NewMongo creates a MongoDB-backed store
//
// Parameters:
//   - client: Pre-configured MongoDB client
//   - database: The database holding the properties collection
//   - collection: The collection name ("properties" if empty)
func NewMongo(client *mongo.Client, database, collection string) *Mongo {
	if collection == "" {
		collection = "properties"
	}
	return &Mongo{collection: client.Database(database).Collection(collection)}
}

// Merge upserts one document per property.
func (s *Mongo) Merge(m properties.Map) error {
	ctx := context.Background()
	upsert := options.Replace().SetUpsert(true)

	for _, k := range m.Keys() {
		doc := bson.M{"_id": k, "value": m[k]}
		if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": k}, doc, upsert); err != nil {
			return errors.Wrapf(err, "failed to upsert property %q", k)
		}
	}

	log.Debug().Str("collection", s.collection.Name()).Int("keys", len(m)).Msg("Merged properties into MongoDB")
	return nil
}

// Name returns the store name
func (s *Mongo) Name() string {
	return "MongoDB"
}
