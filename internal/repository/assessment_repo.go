package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Amoukli/Coach-AI/internal/model"
)

type AssessmentRepo interface {
	Create(ctx context.Context, assessment *model.Assessment) error
	GetByAssessmentID(ctx context.Context, assessmentID string) (*model.Assessment, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Assessment, error)
	GetByUser(ctx context.Context, userID string, limit int64) ([]*model.Assessment, error)
	ExistsForSession(ctx context.Context, sessionID string) (bool, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

func NewAssessmentRepo(client *mongo.Client, dbName string) AssessmentRepo {
	return &assessmentRepo{
		collection: client.Database(dbName).Collection("assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, assessment *model.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = primitive.NewObjectID().Hex()
	}
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, assessment)
	return err
}

func (r *assessmentRepo) GetByAssessmentID(ctx context.Context, assessmentID string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"assessmentId": assessmentID}).Decode(&assessment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Assessment not found
		}
		return nil, err
	}

	return &assessment, nil
}

func (r *assessmentRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&assessment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &assessment, nil
}

func (r *assessmentRepo) GetByUser(ctx context.Context, userID string, limit int64) ([]*model.Assessment, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assessments []*model.Assessment
	if err = cursor.All(ctx, &assessments); err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepo) ExistsForSession(ctx context.Context, sessionID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
