package tasks

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskmanager/internal/models"
)

// categoryCollation gives case-insensitive category matching (strength 2
// ignores case and diacritics but not base characters).
var categoryCollation = &options.Collation{Locale: "en", Strength: 2}

// MongoStore persists tasks and custom lists in MongoDB. The cascade delete
// runs in a transaction, so it needs a client connected to a replica set.
type MongoStore struct {
	client *mongo.Client
	tasks  *mongo.Collection
	lists  *mongo.Collection
}

func NewMongoStore(client *mongo.Client, tasks, lists *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, tasks: tasks, lists: lists}
}

func (s *MongoStore) InsertTask(ctx context.Context, t models.Task) (models.Task, error) {
	res, err := s.tasks.InsertOne(ctx, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("error inserting task: %v", err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

func (s *MongoStore) TasksByCategory(ctx context.Context, owner, category string) ([]models.Task, error) {
	opts := options.Find().
		SetCollation(categoryCollation).
		SetSort(bson.D{{Key: "order_position", Value: 1}})
	cur, err := s.tasks.Find(ctx, bson.M{"owner_id": owner, "category": category}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding tasks: %v", err)
	}
	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding tasks: %v", err)
	}
	return out, nil
}

func (s *MongoStore) ImportantTasks(ctx context.Context, owner string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_position", Value: 1}})
	cur, err := s.tasks.Find(ctx, bson.M{"owner_id": owner, "important": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding important tasks: %v", err)
	}
	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding tasks: %v", err)
	}
	return out, nil
}

func (s *MongoStore) TaskByID(ctx context.Context, owner string, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.tasks.FindOne(ctx, bson.M{"_id": id, "owner_id": owner}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("error retrieving task: %v", err)
	}
	return t, nil
}

func (s *MongoStore) SetCompleted(ctx context.Context, owner string, id primitive.ObjectID, completed bool) error {
	return s.setField(ctx, owner, id, "completed", completed)
}

func (s *MongoStore) SetImportant(ctx context.Context, owner string, id primitive.ObjectID, important bool) error {
	return s.setField(ctx, owner, id, "important", important)
}

func (s *MongoStore) setField(ctx context.Context, owner string, id primitive.ObjectID, field string, value bool) error {
	res, err := s.tasks.UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": owner},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		return fmt.Errorf("error updating task: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteTask(ctx context.Context, owner string, id primitive.ObjectID) error {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id, "owner_id": owner})
	if err != nil {
		return fmt.Errorf("error deleting task: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) MaxPosition(ctx context.Context, owner, category string) (int, bool, error) {
	opts := options.FindOne().
		SetCollation(categoryCollation).
		SetSort(bson.D{{Key: "order_position", Value: -1}})
	var t models.Task
	err := s.tasks.FindOne(ctx, bson.M{"owner_id": owner, "category": category}, opts).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error reading max position: %v", err)
	}
	return t.Position, true, nil
}

func (s *MongoStore) SetPositions(ctx context.Context, owner string, order []primitive.ObjectID) error {
	writes := make([]mongo.WriteModel, 0, len(order))
	for index, id := range order {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id, "owner_id": owner}).
			SetUpdate(bson.M{"$set": bson.M{"order_position": index}}))
	}
	if _, err := s.tasks.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("error updating task order: %v", err)
	}
	return nil
}

func (s *MongoStore) InsertList(ctx context.Context, owner, name string) error {
	_, err := s.lists.InsertOne(ctx, models.CustomList{OwnerID: owner, Name: name})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateList
	}
	if err != nil {
		return fmt.Errorf("error inserting list: %v", err)
	}
	return nil
}

func (s *MongoStore) ListNames(ctx context.Context, owner string) ([]string, error) {
	cur, err := s.lists.Find(ctx, bson.M{"owner_id": owner})
	if err != nil {
		return nil, fmt.Errorf("error finding lists: %v", err)
	}
	var lists []models.CustomList
	if err := cur.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("error decoding lists: %v", err)
	}
	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, l.Name)
	}
	return names, nil
}

func (s *MongoStore) DeleteListCascade(ctx context.Context, owner, name string) (int64, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("error starting session: %v", err)
	}
	defer sess.EndSession(ctx)

	res, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var list models.CustomList
		err := s.lists.FindOne(sc, bson.M{"owner_id": owner, "list_name": name}).Decode(&list)
		if err == mongo.ErrNoDocuments {
			return nil, ErrListNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("error retrieving list: %v", err)
		}

		del, err := s.tasks.DeleteMany(sc,
			bson.M{"owner_id": owner, "category": name},
			options.Delete().SetCollation(categoryCollation),
		)
		if err != nil {
			return nil, fmt.Errorf("error deleting list tasks: %v", err)
		}
		if _, err := s.lists.DeleteOne(sc, bson.M{"_id": list.ID}); err != nil {
			return nil, fmt.Errorf("error deleting list: %v", err)
		}
		return del.DeletedCount, nil
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}
