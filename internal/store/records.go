package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/brewguide/internal/domain"
)

// Stats summarizes the journal for the profile screen.
type Stats struct {
	BrewCount        int
	TastingCount     int
	BeanCount        int
	AverageOverall   float64
	TotalBrewSeconds int
	FavoriteRecipe   string
}

// SaveBrewingRecord appends rec, assigning an id and timestamp if missing.
func (s *Store) SaveBrewingRecord(rec *domain.BrewingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return s.Append(KeyBrewingRecords, rec)
}

// BrewingRecords returns all brewing records, oldest first.
func (s *Store) BrewingRecords() ([]domain.BrewingRecord, error) {
	var recs []domain.BrewingRecord
	if _, err := s.Get(KeyBrewingRecords, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// BrewingRecord returns the brewing record with id.
func (s *Store) BrewingRecord(id string) (domain.BrewingRecord, error) {
	var rec domain.BrewingRecord
	if err := s.findByID(KeyBrewingRecords, id, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// UpdateBrewingRecord replaces the brewing record with id.
func (s *Store) UpdateBrewingRecord(id string, rec domain.BrewingRecord) error {
	rec.ID = id
	return s.replaceByID(KeyBrewingRecords, id, rec)
}

// DeleteBrewingRecord removes the brewing record with id. Tastings that
// refer to it are kept.
func (s *Store) DeleteBrewingRecord(id string) error {
	return s.deleteByID(KeyBrewingRecords, id)
}

// SaveTastingRecord validates rec, checks that its brewing record exists,
// appends it, and copies the overall score onto the brewing record's rating.
func (s *Store) SaveTastingRecord(rec *domain.TastingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	brew, err := s.BrewingRecord(rec.BrewingRecordID)
	if err != nil {
		return fmt.Errorf("brewing record %s: %w", rec.BrewingRecordID, err)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.UserID == "" {
		rec.UserID = brew.UserID
	}
	if err := s.Append(KeyTastingRecords, rec); err != nil {
		return err
	}
	brew.Rating = rec.OverallScore
	return s.UpdateBrewingRecord(brew.ID, brew)
}

// TastingRecords returns all tasting records, oldest first.
func (s *Store) TastingRecords() ([]domain.TastingRecord, error) {
	var recs []domain.TastingRecord
	if _, err := s.Get(KeyTastingRecords, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// DeleteTastingRecord removes the tasting record with id.
func (s *Store) DeleteTastingRecord(id string) error {
	return s.deleteByID(KeyTastingRecords, id)
}

// SaveUser stores the local profile.
func (s *Store) SaveUser(u domain.User) error {
	return s.Set(KeyUser, u)
}

// User returns the local profile, or ErrNotFound.
func (s *Store) User() (domain.User, error) {
	var u domain.User
	ok, err := s.Get(KeyUser, &u)
	if err != nil {
		return u, err
	}
	if !ok {
		return u, fmt.Errorf("user: %w", ErrNotFound)
	}
	return u, nil
}

// AddExperience adds points to the local profile and recomputes its level.
func (s *Store) AddExperience(points int) (domain.User, error) {
	u, err := s.User()
	if err != nil {
		return u, err
	}
	u.Experience += points
	u.Level = domain.LevelFor(u.Experience)
	return u, s.SaveUser(u)
}

// SaveBean appends a bean, assigning an id if missing.
func (s *Store) SaveBean(b *domain.Bean) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	return s.Append(KeyBeans, b)
}

// Beans returns all saved beans.
func (s *Store) Beans() ([]domain.Bean, error) {
	var beans []domain.Bean
	if _, err := s.Get(KeyBeans, &beans); err != nil {
		return nil, err
	}
	return beans, nil
}

// Bean returns the bean with id.
func (s *Store) Bean(id string) (domain.Bean, error) {
	var b domain.Bean
	err := s.findByID(KeyBeans, id, &b)
	return b, err
}

// DeleteBean removes the bean with id.
func (s *Store) DeleteBean(id string) error {
	return s.deleteByID(KeyBeans, id)
}

// FirstLaunch reports whether this is the first call against this store and
// records that it happened.
func (s *Store) FirstLaunch() (bool, error) {
	var seen bool
	ok, err := s.Get(KeyFirstLaunch, &seen)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	return true, s.Set(KeyFirstLaunch, false)
}

// Stats aggregates record counts and scores.
func (s *Store) Stats() (Stats, error) {
	var st Stats

	res, err := s.query("{" +
		`"brews":` + KeyBrewingRecords + `.#,` +
		`"tastings":` + KeyTastingRecords + `.#,` +
		`"beans":` + KeyBeans + `.#,` +
		`"seconds":` + KeyBrewingRecords + `.#.result.actual_seconds,` +
		`"scores":` + KeyTastingRecords + `.#.overall_score,` +
		`"recipes":` + KeyBrewingRecords + `.#.recipe_id` +
		"}")
	if err != nil {
		return st, err
	}

	st.BrewCount = int(res.Get("brews").Int())
	st.TastingCount = int(res.Get("tastings").Int())
	st.BeanCount = int(res.Get("beans").Int())
	for _, v := range res.Get("seconds").Array() {
		st.TotalBrewSeconds += int(v.Int())
	}
	scores := res.Get("scores").Array()
	if len(scores) > 0 {
		total := 0.0
		for _, v := range scores {
			total += v.Float()
		}
		st.AverageOverall = total / float64(len(scores))
	}

	counts := make(map[string]int)
	best := 0
	for _, v := range res.Get("recipes").Array() {
		id := v.String()
		counts[id]++
		if counts[id] > best || (counts[id] == best && id < st.FavoriteRecipe) {
			best = counts[id]
			st.FavoriteRecipe = id
		}
	}
	return st, nil
}

func (s *Store) findByID(key, id string, v any) error {
	res, err := s.query(key + ".#(id==" + strconv.Quote(id) + ")")
	if err != nil {
		return err
	}
	if !res.Exists() {
		return fmt.Errorf("%s %s: %w", key, id, ErrNotFound)
	}
	return decodeResult(res, v)
}

func (s *Store) replaceByID(key, id string, v any) error {
	raw, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	return s.update("update "+key+" "+id, func(data []byte) ([]byte, error) {
		path, err := indexPath(data, key, id)
		if err != nil {
			return nil, err
		}
		return sjson.SetRawBytes(data, path, raw)
	})
}

func (s *Store) deleteByID(key, id string) error {
	return s.update("delete "+key+" "+id, func(data []byte) ([]byte, error) {
		path, err := indexPath(data, key, id)
		if err != nil {
			return nil, err
		}
		return sjson.DeleteBytes(data, path)
	})
}

// indexPath returns the sjson path of the array element under key whose id
// field equals id.
func indexPath(data []byte, key, id string) (string, error) {
	idx := -1
	i := 0
	gjson.GetBytes(data, key).ForEach(func(_, item gjson.Result) bool {
		if item.Get("id").String() == id {
			idx = i
			return false
		}
		i++
		return true
	})
	if idx < 0 {
		return "", fmt.Errorf("%s %s: %w", key, id, ErrNotFound)
	}
	return key + "." + strconv.Itoa(idx), nil
}

func decodeResult(res gjson.Result, v any) error {
	if err := json.Unmarshal([]byte(res.Raw), v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

func jsonMarshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return raw, nil
}
