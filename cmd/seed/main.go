package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/Amoukli/Coach-AI/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "coachai"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "change-me-on-first-login"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	now := time.Now().UTC()

	admin := model.User{
		ID:             primitive.NewObjectID().Hex(),
		Email:          "admin@coachai.local",
		Username:       "admin",
		FirstName:      "Admin",
		Role:           model.RoleAdmin,
		HashedPassword: string(hash),
		IsActive:       true,
		CreatedAt:      now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, admin); err != nil {
		log.Fatalf("Failed to insert admin user: %v", err)
	}

	publishedAt := now
	scenario := model.Scenario{
		ID:          primitive.NewObjectID().Hex(),
		ScenarioID:  "sc_demo0001",
		Title:       "Acute chest pain in a 58-year-old man",
		Description: "Classic cardiology presentation for history-taking practice.",
		Specialty:   "cardiology",
		Difficulty:  model.DifficultyIntermediate,
		Status:      model.ScenarioPublished,
		Patient: model.PatientProfile{
			Name:                "David Hughes",
			Age:                 58,
			Gender:              "male",
			PresentingComplaint: "Central crushing chest pain for the last 45 minutes",
			Voice: model.VoiceProfile{
				Accent:         "british",
				Gender:         "male",
				EmotionalState: "anxious",
			},
		},
		DialogueTree: map[string]model.DialogueNode{
			"root": {
				ID:          "root",
				PatientSays: "Doctor, I've got this terrible pain in my chest. It came on about 45 minutes ago.",
				ClinicalFacts: []string{
					"Crushing central chest pain radiating to the left arm",
					"Sweating and short of breath",
					"Smoker, 30 pack-years",
					"Father had a heart attack at 62",
				},
				ExpectedTopics: []string{
					"pain_quality",
					"pain_location",
					"pain_duration",
					"radiation",
					"associated_symptoms",
				},
			},
		},
		LearningObjectives: []string{
			"Take a focused cardiac history",
			"Recognize red flags for acute coronary syndrome",
			"Formulate an appropriate differential diagnosis",
		},
		CorrectDiagnosis:      "Acute myocardial infarction",
		DifferentialDiagnoses: []string{"Unstable angina", "Pulmonary embolism", "Aortic dissection"},
		Rubric: model.Rubric{
			MustAsk: []string{
				"pain_quality",
				"pain_location",
				"pain_duration",
				"radiation",
				"associated_symptoms",
				"past_medical_history",
				"medications",
				"social_history",
				"family_history",
			},
			RedFlags: []string{
				"crushing_pain",
				"radiation_to_arm",
				"sweating",
				"breathlessness",
			},
			ManagementSteps: []string{"ECG", "troponin", "aspirin", "urgent cardiology referral"},
			TimeLimitMin:    15,
		},
		CreatedBy:   admin.ID,
		ReviewedBy:  admin.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: &publishedAt,
	}
	if _, err := db.Collection("scenarios").InsertOne(ctx, scenario); err != nil {
		log.Fatalf("Failed to insert scenario: %v", err)
	}

	fmt.Printf("Seeded admin user '%s' and scenario '%s'\n", admin.Email, scenario.Title)
}
