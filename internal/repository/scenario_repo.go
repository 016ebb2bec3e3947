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

// ScenarioFilter narrows List results. Zero-valued fields are ignored.
type ScenarioFilter struct {
	Status     model.ScenarioStatus
	Specialty  string
	Difficulty model.Difficulty
	CreatedBy  string
}

type ScenarioRepo interface {
	Create(ctx context.Context, scenario *model.Scenario) error
	GetByScenarioID(ctx context.Context, scenarioID string) (*model.Scenario, error)
	List(ctx context.Context, filter ScenarioFilter) ([]*model.Scenario, error)
	Update(ctx context.Context, scenario *model.Scenario) error
	Delete(ctx context.Context, scenarioID string) error
	RecordPlay(ctx context.Context, scenarioID string, score, completionMin int) error
}

type scenarioRepo struct {
	collection *mongo.Collection
}

func NewScenarioRepo(client *mongo.Client, dbName string) ScenarioRepo {
	return &scenarioRepo{
		collection: client.Database(dbName).Collection("scenarios"),
	}
}

func (r *scenarioRepo) Create(ctx context.Context, scenario *model.Scenario) error {
	if scenario.ID == "" {
		scenario.ID = primitive.NewObjectID().Hex()
	}
	if scenario.CreatedAt.IsZero() {
		scenario.CreatedAt = time.Now().UTC()
	}
	scenario.UpdatedAt = scenario.CreatedAt

	_, err := r.collection.InsertOne(ctx, scenario)
	return err
}

func (r *scenarioRepo) GetByScenarioID(ctx context.Context, scenarioID string) (*model.Scenario, error) {
	var scenario model.Scenario
	err := r.collection.FindOne(ctx, bson.M{"scenarioId": scenarioID}).Decode(&scenario)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Scenario not found
		}
		return nil, err
	}

	return &scenario, nil
}

func (r *scenarioRepo) List(ctx context.Context, filter ScenarioFilter) ([]*model.Scenario, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Specialty != "" {
		query["specialty"] = filter.Specialty
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.CreatedBy != "" {
		query["createdBy"] = filter.CreatedBy
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scenarios []*model.Scenario
	if err = cursor.All(ctx, &scenarios); err != nil {
		return nil, err
	}

	return scenarios, nil
}

func (r *scenarioRepo) Update(ctx context.Context, scenario *model.Scenario) error {
	scenario.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"scenarioId": scenario.ScenarioID}, scenario)
	return err
}

func (r *scenarioRepo) Delete(ctx context.Context, scenarioID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"scenarioId": scenarioID})
	return err
}

// RecordPlay folds one completed session into the scenario's usage
// counters with a running integer mean over timesPlayed.
func (r *scenarioRepo) RecordPlay(ctx context.Context, scenarioID string, score, completionMin int) error {
	scenario, err := r.GetByScenarioID(ctx, scenarioID)
	if err != nil {
		return err
	}
	if scenario == nil {
		return mongo.ErrNoDocuments
	}

	played := scenario.TimesPlayed + 1
	avgScore := score
	avgCompletion := completionMin
	if scenario.TimesPlayed > 0 {
		avgScore = (scenario.AverageScore*scenario.TimesPlayed + score) / played
		avgCompletion = (scenario.AverageCompletionMin*scenario.TimesPlayed + completionMin) / played
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"scenarioId": scenarioID},
		bson.M{"$set": bson.M{
			"timesPlayed":          played,
			"averageScore":         avgScore,
			"averageCompletionMin": avgCompletion,
			"updatedAt":            time.Now().UTC(),
		}},
	)
	return err
}
