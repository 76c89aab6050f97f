package store

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ekverified/app-backend/logging"
)

// MongoStore keeps every record collection as one document
// {_id: name, rev, records} in a single Mongo collection, so a save is a
// compare-and-swap on the revision. All backend calls go through a circuit
// breaker; when Mongo is down requests fail fast instead of piling up.
type MongoStore struct {
	coll    *mongo.Collection
	breaker *gobreaker.CircuitBreaker
}

type collectionDoc struct {
	Name    string `bson:"_id"`
	Rev     int64  `bson:"rev"`
	Records string `bson:"records"`
}

func NewMongoStore(coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) *MongoStore {
	return &MongoStore{coll: coll, breaker: breaker}
}

func (ms *MongoStore) LoadRaw(ctx context.Context, name string) ([]byte, int64, error) {
	result, err := ms.breaker.Execute(func() (interface{}, error) {
		var doc collectionDoc
		err := ms.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return collectionDoc{Name: name}, nil
		}
		return doc, err
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: STORE_LOAD_FAILED, Description: Loading collection %s from MongoDB failed: %v", name, err)
		return nil, 0, ErrUnavailable
	}
	doc := result.(collectionDoc)
	return []byte(doc.Records), doc.Rev, nil
}

func (ms *MongoStore) SaveRaw(ctx context.Context, name string, data []byte, rev int64) error {
	_, err := ms.breaker.Execute(func() (interface{}, error) {
		if rev == 0 {
			_, err := ms.coll.InsertOne(ctx, collectionDoc{Name: name, Rev: 1, Records: string(data)})
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrStaleWrite
			}
			return nil, err
		}

		res, err := ms.coll.UpdateOne(ctx,
			bson.M{"_id": name, "rev": rev},
			bson.M{"$set": bson.M{"records": string(data), "rev": rev + 1}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrStaleWrite
		}
		return nil, nil
	})
	if errors.Is(err, ErrStaleWrite) {
		return ErrStaleWrite
	}
	if err != nil {
		logging.Logger.Errorf("Event ID: STORE_SAVE_FAILED, Description: Saving collection %s to MongoDB failed: %v", name, err)
		return ErrUnavailable
	}
	return nil
}
