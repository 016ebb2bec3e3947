package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Amoukli/Coach-AI/internal/model"
)

type ProgressRepo interface {
	Upsert(ctx context.Context, progress *model.SkillProgress) error
	GetByUser(ctx context.Context, userID string) ([]*model.SkillProgress, error)
	GetByUserAndSkill(ctx context.Context, userID, skillName string) (*model.SkillProgress, error)
}

type progressRepo struct {
	collection *mongo.Collection
}

func NewProgressRepo(client *mongo.Client, dbName string) ProgressRepo {
	return &progressRepo{
		collection: client.Database(dbName).Collection("skill_progress"),
	}
}

// Upsert writes the record keyed by (userId, skillName); a record is
// never deleted while the user exists.
func (r *progressRepo) Upsert(ctx context.Context, progress *model.SkillProgress) error {
	filter := bson.M{"userId": progress.UserID, "skillName": progress.SkillName}
	update := bson.M{"$set": bson.M{
		"userId":        progress.UserID,
		"skillName":     progress.SkillName,
		"currentLevel":  progress.CurrentLevel,
		"previousLevel": progress.PreviousLevel,
		"trend":         progress.Trend,
		"sessionsCount": progress.SessionsCount,
		"lastScore":     progress.LastScore,
		"averageScore":  progress.AverageScore,
		"createdAt":     progress.CreatedAt,
		"updatedAt":     progress.UpdatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *progressRepo) GetByUser(ctx context.Context, userID string) ([]*model.SkillProgress, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.SkillProgress
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *progressRepo) GetByUserAndSkill(ctx context.Context, userID, skillName string) (*model.SkillProgress, error) {
	var progress model.SkillProgress
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "skillName": skillName}).Decode(&progress)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // No record yet for this skill
		}
		return nil, err
	}

	return &progress, nil
}
