package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fixmycity-be/models"
)

const (
	collIssues     = "issues"
	collWorkOrders = "work_orders"
)

// MongoStore implements Store on MongoDB. Multi-document transitions run in
// server-side transactions; Subscribe is backed by change streams.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, db *mongo.Database) *MongoStore {
	return &MongoStore{client: client, db: db}
}

func (s *MongoStore) submissions(source models.Source) *mongo.Collection {
	return s.db.Collection(string(source))
}

func (s *MongoStore) InsertSubmission(ctx context.Context, source models.Source, sub *models.Submission) (primitive.ObjectID, error) {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	if _, err := s.submissions(source).InsertOne(ctx, sub); err != nil {
		return primitive.NilObjectID, err
	}
	return sub.ID, nil
}

func (s *MongoStore) GetSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) (*models.Submission, error) {
	var sub models.Submission
	err := s.submissions(source).FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *MongoStore) ListSubmissions(ctx context.Context, source models.Source) ([]models.Submission, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.submissions(source).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []models.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *MongoStore) DeleteSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) error {
	res, err := s.submissions(source).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CountSubmissions(ctx context.Context) (int64, error) {
	return s.submissions(models.SourceRawSubmissions).CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := s.db.Collection(collIssues).FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (s *MongoStore) ListIssues(ctx context.Context) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(collIssues).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoStore) GetWorkOrder(ctx context.Context, id primitive.ObjectID) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := s.db.Collection(collWorkOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *MongoStore) ListWorkOrders(ctx context.Context, team string, status models.WorkOrderStatus) ([]models.WorkOrder, error) {
	filter := bson.M{}
	if team != "" {
		filter["assigned_team"] = team
	}
	if status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(collWorkOrders).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.WorkOrder{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetWorkOrderProof filters on the eligible states in the update itself so
// the status check and the write are one atomic operation.
func (s *MongoStore) SetWorkOrderProof(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$nin": []models.WorkOrderStatus{
			models.OrderCompleted,
			models.OrderResolved,
			models.OrderPendingAdminApproval,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":             models.OrderPendingAdminApproval,
		"completionImageUrl": imageURL,
	}}

	res, err := s.db.Collection(collWorkOrders).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetWorkOrder(ctx, id); err != nil {
			return err
		}
		return ErrNotEligible
	}
	return nil
}

func (s *MongoStore) ListRawDocs(ctx context.Context, collection string) ([]bson.M, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoTx{db: s.db})
	})
	return err
}

type mongoTx struct {
	db *mongo.Database
}

func (t *mongoTx) InsertIssue(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := t.db.Collection(collIssues).InsertOne(ctx, issue)
	return err
}

func (t *mongoTx) InsertWorkOrder(ctx context.Context, order *models.WorkOrder) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	_, err := t.db.Collection(collWorkOrders).InsertOne(ctx, order)
	return err
}

func (t *mongoTx) SetIssueWorkOrder(ctx context.Context, issueID, orderID primitive.ObjectID) error {
	res, err := t.db.Collection(collIssues).UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"work_order_id": orderID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *mongoTx) SetIssueStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus) error {
	res, err := t.db.Collection(collIssues).UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *mongoTx) SetWorkOrderStatus(ctx context.Context, orderID primitive.ObjectID, status models.WorkOrderStatus) error {
	res, err := t.db.Collection(collWorkOrders).UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *mongoTx) DeleteSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) error {
	res, err := t.db.Collection(string(source)).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Subscribe(ctx context.Context, collections []string) (<-chan Event, func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	streams := make([]*mongo.ChangeStream, 0, len(collections))
	for _, name := range collections {
		cs, err := s.db.Collection(name).Watch(ctx, mongo.Pipeline{},
			options.ChangeStream().SetFullDocument(options.UpdateLookup))
		if err != nil {
			cancel()
			for _, open := range streams {
				_ = open.Close(context.Background())
			}
			return nil, nil, err
		}
		streams = append(streams, cs)
	}

	events := make(chan Event, 32)
	var wg sync.WaitGroup
	for i, cs := range streams {
		wg.Add(1)
		go func(name string, cs *mongo.ChangeStream) {
			defer wg.Done()
			defer cs.Close(context.Background())
			for cs.Next(ctx) {
				var change struct {
					OperationType string `bson:"operationType"`
					DocumentKey   struct {
						ID primitive.ObjectID `bson:"_id"`
					} `bson:"documentKey"`
					FullDocument bson.M `bson:"fullDocument"`
				}
				if err := cs.Decode(&change); err != nil {
					continue
				}
				evType := change.OperationType
				if evType == "replace" {
					evType = "update"
				}
				select {
				case events <- Event{
					Collection: name,
					Type:       evType,
					ID:         change.DocumentKey.ID.Hex(),
					Doc:        change.FullDocument,
				}:
				case <-ctx.Done():
					return
				}
			}
		}(collections[i], cs)
	}

	go func() {
		wg.Wait()
		close(events)
	}()

	return events, cancel, nil
}
