package database

import (
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"
	"agritrain_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DemoEmail    = "demo@agritrain.com"
	DemoUsername = "demo_user"
	DemoPassword = "demo123"
)

type seedQuiz struct {
	scenarioTitle string
	quiz          model.Quiz
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func seedScenarios() []model.Scenario {
	return []model.Scenario{
		{
			Title:           "Pest Management",
			Description:     "Learn to identify, monitor, and control agricultural pests using integrated pest management strategies.",
			ScenarioType:    model.ScenarioPest,
			DurationMinutes: 15,
			DifficultyLevel: model.DifficultyBeginner,
			ImageURL:        strPtr("/assets/scenario-pest.jpg"),
			PanoramaURL:     strPtr("/assets/panorama-pest.jpg"),
			LearningObjectives: datatypes.JSONSlice[string]([]string{
				"Identify common agricultural pests",
				"Understand pest life cycles",
				"Learn integrated pest management techniques",
				"Apply appropriate control measures",
			}),
			Prerequisites: datatypes.JSONSlice[uint]([]uint{}),
		},
		{
			Title:           "Smart Irrigation",
			Description:     "Master water-efficient irrigation techniques and optimize crop water management systems.",
			ScenarioType:    model.ScenarioIrrigation,
			DurationMinutes: 20,
			DifficultyLevel: model.DifficultyIntermediate,
			ImageURL:        strPtr("/assets/scenario-irrigation.jpg"),
			PanoramaURL:     strPtr("/assets/panorama-irrigation.jpg"),
			LearningObjectives: datatypes.JSONSlice[string]([]string{
				"Understand water requirements for different crops",
				"Learn efficient irrigation scheduling",
				"Master water conservation techniques",
				"Optimize irrigation system design",
			}),
			Prerequisites: datatypes.JSONSlice[uint]([]uint{}),
		},
		{
			Title:           "Crop Selection",
			Description:     "Choose the right crops for your climate, soil conditions, and market demands.",
			ScenarioType:    model.ScenarioCrops,
			DurationMinutes: 18,
			DifficultyLevel: model.DifficultyBeginner,
			ImageURL:        strPtr("/assets/scenario-crops.jpg"),
			PanoramaURL:     strPtr("/assets/panorama-crops.jpg"),
			LearningObjectives: datatypes.JSONSlice[string]([]string{
				"Understand crop requirements",
				"Analyze soil and climate conditions",
				"Evaluate market opportunities",
				"Plan crop rotation strategies",
			}),
			Prerequisites: datatypes.JSONSlice[uint]([]uint{}),
		},
		{
			Title:           "Climate Adaptation",
			Description:     "Adapt your farming practices to changing climate conditions and weather patterns.",
			ScenarioType:    model.ScenarioClimate,
			DurationMinutes: 25,
			DifficultyLevel: model.DifficultyAdvanced,
			ImageURL:        strPtr("/assets/scenario-climate.jpg"),
			PanoramaURL:     strPtr("/assets/panorama-climate.jpg"),
			LearningObjectives: datatypes.JSONSlice[string]([]string{
				"Understand climate change impacts on agriculture",
				"Learn adaptation strategies",
				"Implement resilient farming practices",
				"Monitor weather patterns and trends",
			}),
			// filled with the ids of the three scenarios above once they exist
			Prerequisites: datatypes.JSONSlice[uint]([]uint{}),
		},
	}
}

func seedQuizzes() []seedQuiz {
	return []seedQuiz{
		{
			scenarioTitle: "Pest Management",
			quiz: model.Quiz{
				Title:       "Pest Management Assessment",
				Description: strPtr("Test your knowledge of pest identification and management techniques."),
				Questions: datatypes.JSONSlice[model.Question]([]model.Question{
					{
						ID:           1,
						QuestionText: "What is the primary goal of Integrated Pest Management (IPM)?",
						Options: []string{
							"Complete elimination of all pests",
							"Sustainable pest control using multiple strategies",
							"Use only chemical pesticides",
							"Avoid all pest control measures",
						},
						CorrectAnswer: 1,
						Explanation:   strPtr("IPM focuses on sustainable pest control using a combination of biological, cultural, and chemical methods."),
					},
					{
						ID:           2,
						QuestionText: "Which of the following is NOT a cultural pest control method?",
						Options: []string{
							"Crop rotation",
							"Planting resistant varieties",
							"Using beneficial insects",
							"Proper irrigation timing",
						},
						CorrectAnswer: 2,
						Explanation:   strPtr("Using beneficial insects is a biological control method, not cultural."),
					},
					{
						ID:           3,
						QuestionText: "What is the economic threshold in pest management?",
						Options: []string{
							"The cost of pest control measures",
							"The point where pest damage equals control costs",
							"The maximum number of pests allowed",
							"The minimum pesticide application rate",
						},
						CorrectAnswer: 1,
						Explanation:   strPtr("Economic threshold is the pest population level where the cost of control equals the value of damage prevented."),
					},
				}),
				PassingScore:     70,
				TimeLimitMinutes: intPtr(10),
			},
		},
		{
			scenarioTitle: "Smart Irrigation",
			quiz: model.Quiz{
				Title:       "Irrigation Systems Assessment",
				Description: strPtr("Evaluate your understanding of efficient irrigation practices."),
				Questions: datatypes.JSONSlice[model.Question]([]model.Question{
					{
						ID:            1,
						QuestionText:  "What is the most water-efficient irrigation method?",
						Options:       []string{"Flood irrigation", "Sprinkler irrigation", "Drip irrigation", "Furrow irrigation"},
						CorrectAnswer: 2,
						Explanation:   strPtr("Drip irrigation delivers water directly to plant roots with minimal evaporation and runoff."),
					},
					{
						ID:            2,
						QuestionText:  "When is the best time to irrigate crops?",
						Options:       []string{"Midday when it's hottest", "Early morning or evening", "Late at night", "Anytime during the day"},
						CorrectAnswer: 1,
						Explanation:   strPtr("Early morning or evening irrigation reduces water loss due to evaporation and wind."),
					},
					{
						ID:            3,
						QuestionText:  "What does ET (Evapotranspiration) measure?",
						Options:       []string{"Water pressure in irrigation systems", "Water loss from soil and plants", "Irrigation system efficiency", "Crop yield potential"},
						CorrectAnswer: 1,
						Explanation:   strPtr("ET measures the combined water loss from soil evaporation and plant transpiration."),
					},
				}),
				PassingScore:     70,
				TimeLimitMinutes: intPtr(15),
			},
		},
		{
			scenarioTitle: "Crop Selection",
			quiz: model.Quiz{
				Title:       "Crop Selection Assessment",
				Description: strPtr("Test your knowledge of crop selection and planning strategies."),
				Questions: datatypes.JSONSlice[model.Question]([]model.Question{
					{
						ID:            1,
						QuestionText:  "What is the most important factor when selecting crops for a new region?",
						Options:       []string{"Market price only", "Climate and soil conditions", "Personal preference", "Equipment availability"},
						CorrectAnswer: 1,
						Explanation:   strPtr("Climate and soil conditions determine whether crops can grow successfully in a region."),
					},
					{
						ID:            2,
						QuestionText:  "What is crop rotation?",
						Options:       []string{"Turning crops during growth", "Growing different crops in sequence", "Harvesting crops in circles", "Storing crops in rotation"},
						CorrectAnswer: 1,
						Explanation:   strPtr("Crop rotation involves growing different crops in the same field in sequential seasons to improve soil health."),
					},
					{
						ID:            3,
						QuestionText:  "Which factor is NOT typically considered in crop selection?",
						Options:       []string{"Soil pH", "Water availability", "Farmer's age", "Market demand"},
						CorrectAnswer: 2,
						Explanation:   strPtr("While experience matters, the farmer's age itself is not a direct factor in crop selection decisions."),
					},
				}),
				PassingScore:     70,
				TimeLimitMinutes: intPtr(12),
			},
		},
		{
			scenarioTitle: "Climate Adaptation",
			quiz: model.Quiz{
				Title:       "Climate Adaptation Assessment",
				Description: strPtr("Evaluate your understanding of climate-smart agriculture practices."),
				Questions: datatypes.JSONSlice[model.Question]([]model.Question{
					{
						ID:            1,
						QuestionText:  "What is climate-smart agriculture?",
						Options:       []string{"Using only modern technology", "Farming that adapts to and mitigates climate change", "Growing crops indoors only", "Avoiding all traditional practices"},
						CorrectAnswer: 1,
						Explanation:   strPtr("Climate-smart agriculture sustainably increases productivity while adapting to climate change and reducing greenhouse gas emissions."),
					},
					{
						ID:            2,
						QuestionText:  "Which practice helps build climate resilience in farming?",
						Options:       []string{"Monoculture farming", "Diversifying crops and livestock", "Removing all trees from farmland", "Using only chemical fertilizers"},
						CorrectAnswer: 1,
						Explanation:   strPtr("Diversification reduces risk and improves resilience to climate variability and extreme weather events."),
					},
					{
						ID:            3,
						QuestionText:  "What is a key benefit of agroforestry in climate adaptation?",
						Options:       []string{"Reduces biodiversity", "Increases soil erosion", "Provides windbreaks and carbon sequestration", "Eliminates the need for irrigation"},
						CorrectAnswer: 2,
						Explanation:   strPtr("Agroforestry systems provide windbreaks, sequester carbon, improve soil health, and enhance climate resilience."),
					},
				}),
				PassingScore:     75,
				TimeLimitMinutes: intPtr(18),
			},
		},
	}
}

// Seed inserts the sample scenarios, quizzes and demo account. Rows are
// matched by natural key (scenario title, quiz scenario, user email), so
// running it repeatedly leaves the data unchanged.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]uint)
		scenarios := seedScenarios()
		for i := range scenarios {
			s := &scenarios[i]
			var existing model.Scenario
			err := tx.Where("title = ?", s.Title).First(&existing).Error
			switch {
			case err == nil:
				ids[s.Title] = existing.ID
				continue
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}

			if s.ScenarioType == model.ScenarioClimate {
				prereqs := make([]uint, 0, 3)
				for _, title := range []string{"Pest Management", "Smart Irrigation", "Crop Selection"} {
					if id, ok := ids[title]; ok {
						prereqs = append(prereqs, id)
					}
				}
				s.Prerequisites = datatypes.JSONSlice[uint](prereqs)
			}
			if err := tx.Create(s).Error; err != nil {
				return err
			}
			ids[s.Title] = s.ID
			logger.Log.Info("seeded scenario", zap.String("title", s.Title), zap.Uint("id", s.ID))
		}

		for _, sq := range seedQuizzes() {
			scenarioID, ok := ids[sq.scenarioTitle]
			if !ok {
				continue
			}
			var count int64
			if err := tx.Model(&model.Quiz{}).Where("scenario_id = ?", scenarioID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			quiz := sq.quiz
			quiz.ScenarioID = scenarioID
			if err := tx.Create(&quiz).Error; err != nil {
				return err
			}
			logger.Log.Info("seeded quiz", zap.String("title", quiz.Title), zap.Uint("scenario_id", scenarioID))
		}

		var userCount int64
		if err := tx.Model(&model.User{}).Where("email = ?", DemoEmail).Count(&userCount).Error; err != nil {
			return err
		}
		if userCount == 0 {
			hashed, err := util.HashPassword(DemoPassword)
			if err != nil {
				return err
			}
			demo := &model.User{
				Email:          DemoEmail,
				Username:       DemoUsername,
				HashedPassword: hashed,
				FullName:       strPtr("Demo User"),
				IsActive:       true,
			}
			if err := tx.Create(demo).Error; err != nil {
				return err
			}
			logger.Log.Info("seeded demo user", zap.String("email", DemoEmail))
		}

		return nil
	})
}
