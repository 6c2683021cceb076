package brewing

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexander-akhmetov/brewguide/internal/domain"
)

// NewBrewingRecord builds the record handed to the tasting flow after a
// session completes. Yield is taken from the recipe's water amount.
func NewBrewingRecord(userID string, recipe domain.Recipe, beanID string, res Result, now time.Time) domain.BrewingRecord {
	return domain.BrewingRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		RecipeID:   recipe.ID,
		BeanID:     beanID,
		Parameters: recipe.Parameters,
		Result: domain.BrewingResult{
			ActualSeconds:  res.ActualElapsedSeconds,
			YieldML:        recipe.Parameters.WaterML,
			StepsCompleted: res.StepsCompletedCount,
			TotalSteps:     res.TotalSteps,
		},
		CreatedAt: now,
	}
}

// MetaFor returns session metadata for brewing recipe with beanID.
func MetaFor(recipe domain.Recipe, beanID string) Meta {
	return Meta{
		RecipeID:          recipe.ID,
		BeanID:            beanID,
		TargetWaterML:     recipe.Parameters.WaterML,
		TargetBrewSeconds: recipe.Parameters.BrewSeconds,
	}
}
