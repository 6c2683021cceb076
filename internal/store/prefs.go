package store

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// PrefDefaultBean names the bean a guided session uses when none is given.
const PrefDefaultBean = "default_bean"

// Preferences returns the saved user preferences. A store without any
// returns an empty map.
func (s *Store) Preferences() (map[string]string, error) {
	prefs := map[string]string{}
	if _, err := s.Get(KeyPreferences, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Preference returns a single preference and whether it is set.
func (s *Store) Preference(name string) (string, bool, error) {
	prefs, err := s.Preferences()
	if err != nil {
		return "", false, err
	}
	v, ok := prefs[name]
	return v, ok, nil
}

// SetPreference stores value under name, keeping other preferences.
func (s *Store) SetPreference(name, value string) error {
	if err := validateKey(name); err != nil {
		return err
	}
	return s.update("set preference "+name, func(data []byte) ([]byte, error) {
		return sjson.SetBytes(data, KeyPreferences+"."+name, value)
	})
}

// UnsetPreference removes name. It is an error if name is not set.
func (s *Store) UnsetPreference(name string) error {
	if err := validateKey(name); err != nil {
		return err
	}
	if _, ok, err := s.Preference(name); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("preference %s: %w", name, ErrNotFound)
	}
	return s.update("unset preference "+name, func(data []byte) ([]byte, error) {
		return sjson.DeleteBytes(data, KeyPreferences+"."+name)
	})
}

// ResetPreferences drops every preference.
func (s *Store) ResetPreferences() error {
	return s.Remove(KeyPreferences)
}
