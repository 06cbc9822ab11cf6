package rollup

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

// CollectionRollups holds one document per origin station.
const CollectionRollups = "rollups"

// mongoDoc is the stored form of a rollup file.
type mongoDoc struct {
	From  string          `bson:"_id"`
	Pairs map[string]Pair `bson:"pairs"`
}

// MongoSource loads rollup files from MongoDB.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoSource connects to uri and uses the rollups collection of db.
func NewMongoSource(ctx context.Context, uri, db string) (*MongoSource, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	s := NewMongoSourceFromCollection(client.Database(db).Collection(CollectionRollups))
	s.client, s.owned = client, true
	return s, nil
}

// NewMongoSourceFromCollection wraps an existing collection. Close leaves
// its client connected.
func NewMongoSourceFromCollection(coll *mongo.Collection) *MongoSource {
	return &MongoSource{coll: coll}
}

// String names the collection.
func (s *MongoSource) String() string {
	return "mongodb:" + s.coll.Database().Name() + "." + s.coll.Name()
}

// Load reads the document for from. Progress jumps straight to 100.
func (s *MongoSource) Load(ctx context.Context, from string, progress func(pct int)) (File, error) {
	if err := errors.ValidateStationID(from); err != nil {
		return nil, err
	}

	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": from}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "no rollup for %s", from)
	}
	if err != nil {
		if errors.IsDeadline(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "load rollup for %s", from)
		}
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "load rollup for %s", from)
	}
	if progress != nil {
		progress(100)
	}
	return File(doc.Pairs), nil
}

// Store upserts the rollup file for from. It is used to seed the
// collection from a directory of JSON files.
func (s *MongoSource) Store(ctx context.Context, from string, f File) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": from},
		mongoDoc{From: from, Pairs: f},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store rollup for %s", from)
	}
	return nil
}

// Close disconnects the client if this source created it.
func (s *MongoSource) Close(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(ctx)
}
