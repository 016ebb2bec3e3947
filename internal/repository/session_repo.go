package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Amoukli/Coach-AI/internal/model"
)

type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.Session, error)
	GetByUser(ctx context.Context, userID string, status model.SessionStatus) ([]*model.Session, error)
	GetByScenario(ctx context.Context, scenarioID string) ([]*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	CountCompletedByUser(ctx context.Context, userID string) (int64, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(client *mongo.Client, dbName string) SessionRepo {
	return &sessionRepo{
		collection: client.Database(dbName).Collection("sessions"),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	if session.ID == "" {
		session.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Session not found
		}
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepo) GetByUser(ctx context.Context, userID string, status model.SessionStatus) ([]*model.Session, error) {
	query := bson.M{"userId": userID}
	if status != "" {
		query["status"] = status
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.M{"startedAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepo) GetByScenario(ctx context.Context, scenarioID string) ([]*model.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"scenarioId": scenarioID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"sessionId": session.SessionID}, session)
	return err
}

func (r *sessionRepo) CountCompletedByUser(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"userId": userID,
		"status": model.SessionCompleted,
	})
}
