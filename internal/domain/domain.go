// Package domain defines the shared model types used across brewguide:
// beans, recipes and their steps, brewing and tasting records.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Roast levels.
const (
	RoastLight       = "Light"
	RoastMediumLight = "Medium-Light"
	RoastMedium      = "Medium"
	RoastMediumDark  = "Medium-Dark"
	RoastDark        = "Dark"
)

// Processing methods.
const (
	ProcessWashed     = "Washed"
	ProcessNatural    = "Natural"
	ProcessHoney      = "Honey"
	ProcessSemiWashed = "Semi-Washed"
)

// Equipment types.
const (
	EquipmentPourOver    = "Pour Over"
	EquipmentEspresso    = "Espresso"
	EquipmentFrenchPress = "French Press"
	EquipmentAeroPress   = "AeroPress"
	EquipmentColdBrew    = "Cold Brew"
)

// Flavor categories.
const (
	FlavorFloral    = "Floral"
	FlavorFruity    = "Fruity"
	FlavorSweet     = "Sweet"
	FlavorNutty     = "Nutty"
	FlavorChocolate = "Chocolate"
	FlavorSpicy     = "Spicy"
	FlavorOthers    = "Others"
)

// Score bounds for tasting scores and rating.
const (
	MinScore = 1
	MaxScore = 5
)

// ErrInvalidScore is returned when a score falls outside [MinScore, MaxScore].
var ErrInvalidScore = errors.New("invalid score")

// FlavorNote is a single named flavor with an intensity of 1-5.
type FlavorNote struct {
	Name      string `json:"name" yaml:"name"`
	Intensity int    `json:"intensity" yaml:"intensity"`
	Category  string `json:"category" yaml:"category"`
}

// FlavorProfile describes a bean's cup characteristics.
type FlavorProfile struct {
	Aroma      []FlavorNote `json:"aroma" yaml:"aroma"`
	Flavor     []FlavorNote `json:"flavor" yaml:"flavor"`
	Acidity    int          `json:"acidity" yaml:"acidity"`
	Body       int          `json:"body" yaml:"body"`
	Aftertaste int          `json:"aftertaste" yaml:"aftertaste"`
	Sweetness  int          `json:"sweetness" yaml:"sweetness"`
	Bitterness int          `json:"bitterness" yaml:"bitterness"`
}

// Bean is a coffee bean known to the user.
type Bean struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Origin           string        `json:"origin"`
	RoastLevel       string        `json:"roast_level"`
	ProcessingMethod string        `json:"processing_method"`
	FlavorProfile    FlavorProfile `json:"flavor_profile"`
	Price            float64       `json:"price,omitempty"`
	ImagePath        string        `json:"image_path,omitempty"`
	Description      string        `json:"description,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Equipment is a brewing device.
type Equipment struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Step is one instructed phase of a recipe. Duration is advisory.
type Step struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Instruction string `json:"instruction" yaml:"instruction"`
	// Duration is the target duration in seconds.
	Duration int `json:"duration" yaml:"duration"`
	// WaterML is the optional target water amount; 0 means unset.
	WaterML int `json:"water_ml,omitempty" yaml:"water_ml,omitempty"`
	// TemperatureC is the optional target temperature; 0 means unset.
	TemperatureC int    `json:"temperature_c,omitempty" yaml:"temperature_c,omitempty"`
	Tips         string `json:"tips,omitempty" yaml:"tips,omitempty"`
}

// HasWater reports whether the step carries a water target.
func (s Step) HasWater() bool { return s.WaterML > 0 }

// HasTemperature reports whether the step carries a temperature target.
func (s Step) HasTemperature() bool { return s.TemperatureC > 0 }

// Parameters are the overall brewing parameters of a recipe.
type Parameters struct {
	GrindSize   string `json:"grind_size" yaml:"grind_size"`
	CoffeeGrams int    `json:"coffee_g" yaml:"coffee_g"`
	WaterML     int    `json:"water_ml" yaml:"water_ml"`
	WaterTempC  int    `json:"water_temp_c" yaml:"water_temp_c"`
	BrewSeconds int    `json:"brew_seconds" yaml:"brew_seconds"`
	Ratio       string `json:"ratio" yaml:"ratio"`
	PourPattern string `json:"pour_pattern,omitempty" yaml:"pour_pattern,omitempty"`
}

// Recipe is a brewing method with ordered steps.
type Recipe struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Category      string     `json:"category" yaml:"category"`
	Equipment     Equipment  `json:"equipment" yaml:"equipment"`
	Difficulty    int        `json:"difficulty" yaml:"difficulty"`
	EstimatedMins int        `json:"estimated_minutes" yaml:"estimated_minutes"`
	Description   string     `json:"description,omitempty" yaml:"description,omitempty"`
	Steps         []Step     `json:"steps" yaml:"steps"`
	Parameters    Parameters `json:"parameters" yaml:"parameters"`
}

// Ratio returns the coffee to water ratio as "1:N", computed from the
// parameters when no explicit ratio is set.
func (r *Recipe) Ratio() string {
	if r.Parameters.Ratio != "" {
		return r.Parameters.Ratio
	}
	if r.Parameters.CoffeeGrams <= 0 {
		return ""
	}
	return fmt.Sprintf("1:%d", r.Parameters.WaterML/r.Parameters.CoffeeGrams)
}

// TotalStepSeconds sums the advisory durations of all steps.
func (r *Recipe) TotalStepSeconds() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Duration
	}
	return total
}

// RecognitionResult is what the bean recognizer returns.
type RecognitionResult struct {
	BeanType           string        `json:"bean_type"`
	Confidence         float64       `json:"confidence"`
	Origin             string        `json:"origin"`
	RoastLevel         string        `json:"roast_level"`
	ProcessingMethod   string        `json:"processing_method"`
	FlavorProfile      FlavorProfile `json:"flavor_profile"`
	RecommendedBrewing []Recipe      `json:"recommended_brewing"`
	ImagePath          string        `json:"image_path,omitempty"`
}

// BrewingResult is the measured outcome of a brew.
type BrewingResult struct {
	ActualSeconds  int     `json:"actual_seconds"`
	YieldML        int     `json:"yield_ml"`
	ExtractionRate float64 `json:"extraction_rate,omitempty"`
	StepsCompleted int     `json:"steps_completed"`
	TotalSteps     int     `json:"total_steps"`
}

// BrewingRecord is a finished brew.
type BrewingRecord struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	RecipeID   string        `json:"recipe_id"`
	BeanID     string        `json:"bean_id,omitempty"`
	Parameters Parameters    `json:"parameters"`
	Result     BrewingResult `json:"result"`
	Rating     int           `json:"rating"`
	Notes      string        `json:"notes"`
	CreatedAt  time.Time     `json:"created_at"`
}

// FlavorWheel holds eight 0-5 axis values.
type FlavorWheel struct {
	Floral    int `json:"floral"`
	Fruity    int `json:"fruity"`
	Sweet     int `json:"sweet"`
	Nutty     int `json:"nutty"`
	Chocolate int `json:"chocolate"`
	Spicy     int `json:"spicy"`
	Acidic    int `json:"acidic"`
	Bitter    int `json:"bitter"`
}

// TastingRecord scores a brewing record.
type TastingRecord struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	BrewingRecordID string      `json:"brewing_record_id"`
	OverallScore    int         `json:"overall_score"`
	AromaScore      int         `json:"aroma_score"`
	FlavorScore     int         `json:"flavor_score"`
	AcidityScore    int         `json:"acidity_score"`
	BodyScore       int         `json:"body_score"`
	AftertasteScore int         `json:"aftertaste_score"`
	FlavorWheel     FlavorWheel `json:"flavor_wheel"`
	Notes           string      `json:"notes"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Validate checks every score is within bounds and the wheel axes are 0-5.
func (t *TastingRecord) Validate() error {
	scores := []struct {
		name  string
		value int
	}{
		{"overall", t.OverallScore},
		{"aroma", t.AromaScore},
		{"flavor", t.FlavorScore},
		{"acidity", t.AcidityScore},
		{"body", t.BodyScore},
		{"aftertaste", t.AftertasteScore},
	}
	for _, s := range scores {
		if err := ValidateScore(s.value); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	w := t.FlavorWheel
	for _, v := range []int{w.Floral, w.Fruity, w.Sweet, w.Nutty, w.Chocolate, w.Spicy, w.Acidic, w.Bitter} {
		if v < 0 || v > MaxScore {
			return fmt.Errorf("flavor wheel value %d: %w", v, ErrInvalidScore)
		}
	}
	return nil
}

// ValidateScore returns ErrInvalidScore when n is outside [MinScore, MaxScore].
func ValidateScore(n int) error {
	if n < MinScore || n > MaxScore {
		return fmt.Errorf("%d not in [%d,%d]: %w", n, MinScore, MaxScore, ErrInvalidScore)
	}
	return nil
}

// User is the local profile.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	Level      string    `json:"level"`
	Experience int       `json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
}

// Experience awarded for journal activity.
const (
	ExperiencePerBrew    = 20
	ExperiencePerTasting = 10
)

// ExperienceGoal is the experience needed to reach the top level.
const ExperienceGoal = 2000

// LevelFor maps experience points to a barista level.
func LevelFor(experience int) string {
	switch {
	case experience >= ExperienceGoal:
		return "Expert Barista"
	case experience >= 500:
		return "Intermediate Barista"
	default:
		return "Beginner Barista"
	}
}
