package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"auditflow/backend/pkg/models"
)

// Collection name constants.
const (
	colClients    = "client"
	colWorkflows  = "workflow"
	colDocuments  = "document"
	colSignatures = "signature"
)

var _ Repository = (*MongoStore)(nil)

// MongoStore is a MongoDB implementation of Repository. Every record is one
// document; a workflow's steps live inside the workflow document so a steps
// replacement is a single-document write.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore creates a store on the named database. Close disconnects
// the client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

// Migrate creates the client_id/created_at indexes used by list queries.
func (s *MongoStore) Migrate(ctx context.Context) error {
	for _, col := range []string{colWorkflows, colDocuments, colSignatures} {
		_, err := s.db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// CreateClient stores a client.
func (s *MongoStore) CreateClient(ctx context.Context, c *models.Client) error {
	assignID(&c.ID)
	assignTime(&c.CreatedAt, utcNow)
	if _, err := s.db.Collection(colClients).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("mongo: insert client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by its ID.
func (s *MongoStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := s.db.Collection(colClients).FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get client: %w", err)
	}
	return &c, nil
}

// ListClients returns all clients.
func (s *MongoStore) ListClients(ctx context.Context) ([]*models.Client, error) {
	out := []*models.Client{}
	if err := findAll(ctx, s.db.Collection(colClients), models.ListFilter{}, &out); err != nil {
		return nil, fmt.Errorf("mongo: list clients: %w", err)
	}
	return out, nil
}

// CreateWorkflow stores a workflow.
func (s *MongoStore) CreateWorkflow(ctx context.Context, w *models.Workflow) error {
	assignID(&w.ID)
	assignTime(&w.CreatedAt, utcNow)
	if w.Steps == nil {
		w.Steps = []models.WorkflowStep{}
	}
	if _, err := s.db.Collection(colWorkflows).InsertOne(ctx, w); err != nil {
		return fmt.Errorf("mongo: insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by its ID.
func (s *MongoStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	var w models.Workflow
	err := s.db.Collection(colWorkflows).FindOne(ctx, bson.M{"_id": id}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: get workflow: %w", err)
	}
	return &w, nil
}

// ListWorkflows returns workflows matching the filter.
func (s *MongoStore) ListWorkflows(ctx context.Context, filter models.ListFilter) ([]*models.Workflow, error) {
	out := []*models.Workflow{}
	if err := findAll(ctx, s.db.Collection(colWorkflows), filter, &out); err != nil {
		return nil, fmt.Errorf("mongo: list workflows: %w", err)
	}
	return out, nil
}

// ReplaceWorkflowSteps overwrites the steps of a workflow with one $set.
func (s *MongoStore) ReplaceWorkflowSteps(ctx context.Context, id string, steps []models.WorkflowStep) error {
	res, err := s.db.Collection(colWorkflows).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"steps": steps}},
	)
	if err != nil {
		return fmt.Errorf("mongo: replace workflow steps: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrWorkflowNotFound
	}
	return nil
}

// CreateDocument stores a document.
func (s *MongoStore) CreateDocument(ctx context.Context, d *models.Document) error {
	assignID(&d.ID)
	assignTime(&d.CreatedAt, utcNow)
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if _, err := s.db.Collection(colDocuments).InsertOne(ctx, d); err != nil {
		return fmt.Errorf("mongo: insert document: %w", err)
	}
	return nil
}

// ListDocuments returns documents matching the filter.
func (s *MongoStore) ListDocuments(ctx context.Context, filter models.ListFilter) ([]*models.Document, error) {
	out := []*models.Document{}
	if err := findAll(ctx, s.db.Collection(colDocuments), filter, &out); err != nil {
		return nil, fmt.Errorf("mongo: list documents: %w", err)
	}
	return out, nil
}

// CreateSignature stores a signature.
func (s *MongoStore) CreateSignature(ctx context.Context, sig *models.Signature) error {
	assignID(&sig.ID)
	assignTime(&sig.CreatedAt, utcNow)
	if _, err := s.db.Collection(colSignatures).InsertOne(ctx, sig); err != nil {
		return fmt.Errorf("mongo: insert signature: %w", err)
	}
	return nil
}

// ListSignatures returns signatures matching the filter.
func (s *MongoStore) ListSignatures(ctx context.Context, filter models.ListFilter) ([]*models.Signature, error) {
	out := []*models.Signature{}
	if err := findAll(ctx, s.db.Collection(colSignatures), filter, &out); err != nil {
		return nil, fmt.Errorf("mongo: list signatures: %w", err)
	}
	return out, nil
}

// findAll decodes every matching document, oldest first, into out.
func findAll(ctx context.Context, col *mongo.Collection, filter models.ListFilter, out any) error {
	query := bson.M{}
	if filter.ClientID != "" {
		query["client_id"] = filter.ClientID
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := col.Find(ctx, query, findOpts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}
