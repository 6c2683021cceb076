// Package recognize identifies coffee beans from a photo. The current
// implementation is a stand-in that returns one of a few known beans after
// a short delay, so the rest of the flow can be exercised offline.
package recognize

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexander-akhmetov/brewguide/internal/debug"
	"github.com/alexander-akhmetov/brewguide/internal/domain"
)

// MaxImageBytes is the largest photo accepted.
const MaxImageBytes = 5 << 20

var (
	// ErrUnsupportedImage is returned for files that are not jpg, jpeg or png.
	ErrUnsupportedImage = errors.New("unsupported image type")
	// ErrImageTooLarge is returned for files over MaxImageBytes.
	ErrImageTooLarge = errors.New("image too large")
)

// Config controls the simulated latency and bean selection.
type Config struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	// Rand picks the delay and the result. Nil uses a time-seeded source.
	Rand *rand.Rand
}

// Recognizer returns canned recognition results.
type Recognizer struct {
	cfg Config
}

// New creates a Recognizer.
func New(cfg Config) *Recognizer {
	if cfg.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		cfg.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &Recognizer{cfg: cfg}
}

// Recognize validates the image at path and returns a recognition result
// with brewing recommendations. It blocks for the configured delay unless
// ctx is cancelled first.
func (r *Recognizer) Recognize(ctx context.Context, path string) (domain.RecognitionResult, error) {
	if err := CheckImage(path); err != nil {
		return domain.RecognitionResult{}, err
	}

	delay := r.cfg.MinDelay
	if span := r.cfg.MaxDelay - r.cfg.MinDelay; span > 0 {
		delay += time.Duration(r.cfg.Rand.Int64N(int64(span) + 1))
	}
	debug.Logf("recognize: %s, simulated delay %s", path, delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return domain.RecognitionResult{}, fmt.Errorf("recognize %s: %w", path, ctx.Err())
	case <-timer.C:
	}

	res := knownBeans[r.cfg.Rand.IntN(len(knownBeans))]
	res.FlavorProfile.Aroma = append([]domain.FlavorNote(nil), res.FlavorProfile.Aroma...)
	res.FlavorProfile.Flavor = append([]domain.FlavorNote(nil), res.FlavorProfile.Flavor...)
	res.RecommendedBrewing = Recommend(res.FlavorProfile)
	res.ImagePath = path
	return res, nil
}

// CheckImage validates the file type and size of a photo.
func CheckImage(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, filepath.Base(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedImage, path)
	}
	if info.Size() > MaxImageBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, info.Size(), MaxImageBytes)
	}
	return nil
}

// Recommend suggests recipes for a flavor profile: a V60 always, a bit
// cooler for bright coffees, plus a French press for heavy-bodied ones.
func Recommend(p domain.FlavorProfile) []domain.Recipe {
	temp := 92
	if p.Acidity > 3 {
		temp = 90
	}
	recs := []domain.Recipe{{
		ID:            "v60",
		Name:          "V60 Pour Over",
		Category:      "pour-over",
		Equipment:     domain.Equipment{ID: "v60", Name: "Hario V60", Type: domain.EquipmentPourOver},
		Difficulty:    2,
		EstimatedMins: 4,
		Parameters: domain.Parameters{
			GrindSize:   "Medium-fine",
			CoffeeGrams: 15,
			WaterML:     250,
			WaterTempC:  temp,
			BrewSeconds: 180,
			Ratio:       "1:15",
		},
	}}
	if p.Body > 3 {
		recs = append(recs, domain.Recipe{
			ID:            "french-press",
			Name:          "French Press",
			Category:      "immersion",
			Equipment:     domain.Equipment{ID: "french-press", Name: "French Press", Type: domain.EquipmentFrenchPress},
			Difficulty:    1,
			EstimatedMins: 5,
			Parameters: domain.Parameters{
				GrindSize:   "Coarse",
				CoffeeGrams: 20,
				WaterML:     300,
				WaterTempC:  95,
				BrewSeconds: 240,
				Ratio:       "1:15",
			},
		})
	}
	return recs
}

// Describe writes a one-sentence tasting description for a flavor profile.
func Describe(p domain.FlavorProfile) string {
	var parts []string
	if p.Acidity > 3 {
		parts = append(parts, "noticeably bright on the palate")
	}
	if len(p.Aroma) > 0 {
		names := make([]string, len(p.Aroma))
		for i, n := range p.Aroma {
			names[i] = strings.ToLower(n.Name)
		}
		parts = append(parts, "aromas of "+strings.Join(names, " and "))
	}
	if p.Sweetness > 3 {
		parts = append(parts, "a sweet finish")
	}
	if p.Body > 3 {
		parts = append(parts, "a full body")
	} else {
		parts = append(parts, "a clean, light body")
	}
	if float64(p.Acidity+p.Sweetness+p.Body)/3 > 3.5 {
		parts = append(parts, "well balanced overall")
	}
	s := strings.Join(parts, ", ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

var knownBeans = []domain.RecognitionResult{
	{
		BeanType:         "Ethiopia Yirgacheffe",
		Confidence:       0.92,
		Origin:           "Ethiopia",
		RoastLevel:       domain.RoastMediumLight,
		ProcessingMethod: domain.ProcessWashed,
		FlavorProfile: domain.FlavorProfile{
			Aroma: []domain.FlavorNote{
				{Name: "Jasmine", Intensity: 4, Category: domain.FlavorFloral},
				{Name: "Lemon", Intensity: 3, Category: domain.FlavorFruity},
			},
			Flavor: []domain.FlavorNote{
				{Name: "Honey", Intensity: 3, Category: domain.FlavorSweet},
				{Name: "Black tea", Intensity: 4, Category: domain.FlavorOthers},
			},
			Acidity: 4, Body: 3, Aftertaste: 4, Sweetness: 3, Bitterness: 2,
		},
	},
	{
		BeanType:         "Colombia Huila",
		Confidence:       0.88,
		Origin:           "Colombia",
		RoastLevel:       domain.RoastMedium,
		ProcessingMethod: domain.ProcessWashed,
		FlavorProfile: domain.FlavorProfile{
			Aroma: []domain.FlavorNote{
				{Name: "Hazelnut", Intensity: 4, Category: domain.FlavorNutty},
				{Name: "Milk chocolate", Intensity: 3, Category: domain.FlavorChocolate},
			},
			Flavor: []domain.FlavorNote{
				{Name: "Caramel", Intensity: 4, Category: domain.FlavorSweet},
				{Name: "Vanilla", Intensity: 2, Category: domain.FlavorOthers},
			},
			Acidity: 3, Body: 4, Aftertaste: 3, Sweetness: 4, Bitterness: 3,
		},
	},
	{
		BeanType:         "Brazil Santos",
		Confidence:       0.85,
		Origin:           "Brazil",
		RoastLevel:       domain.RoastMediumDark,
		ProcessingMethod: domain.ProcessNatural,
		FlavorProfile: domain.FlavorProfile{
			Aroma: []domain.FlavorNote{
				{Name: "Cocoa", Intensity: 5, Category: domain.FlavorChocolate},
				{Name: "Toast", Intensity: 3, Category: domain.FlavorOthers},
			},
			Flavor: []domain.FlavorNote{
				{Name: "Dark chocolate", Intensity: 4, Category: domain.FlavorChocolate},
				{Name: "Peanut", Intensity: 3, Category: domain.FlavorNutty},
			},
			Acidity: 2, Body: 5, Aftertaste: 4, Sweetness: 2, Bitterness: 4,
		},
	},
}

// BeanFromResult converts a recognition into a bean that can be saved.
func BeanFromResult(res domain.RecognitionResult) domain.Bean {
	return domain.Bean{
		Name:             res.BeanType,
		Origin:           res.Origin,
		RoastLevel:       res.RoastLevel,
		ProcessingMethod: res.ProcessingMethod,
		FlavorProfile:    res.FlavorProfile,
		ImagePath:        res.ImagePath,
	}
}
