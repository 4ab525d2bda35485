package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store provides thread-safe, chronological storage for monthly observations.
type Store struct {
	mu   sync.RWMutex
	sets map[string][]Observation // Partitioned by plan ID
}

// NewStore creates a new empty Store.
func NewStore() *Store {
	return &Store{
		sets: make(map[string][]Observation),
	}
}

// Append adds observations for a plan, keeping one record per calendar month
// (later appends win) and chronological ordering.
func (s *Store) Append(planID string, observations []Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byMonth := make(map[string]Observation)
	for _, o := range s.sets[planID] {
		byMonth[o.Date.Format("2006-01")] = o
	}
	for _, o := range observations {
		byMonth[o.Date.Format("2006-01")] = o
	}

	merged := make([]Observation, 0, len(byMonth))
	for _, o := range byMonth {
		merged = append(merged, o)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})

	s.sets[planID] = merged
}

// All returns a copy of the ordered observation series for a plan.
func (s *Store) All(planID string) []Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.sets[planID]
	out := make([]Observation, len(src))
	copy(out, src)
	return out
}

// Count returns the number of observations stored for a plan.
func (s *Store) Count(planID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets[planID])
}

// Load reads observations from a JSONL file for the given plan.
func (s *Store) Load(dataDir string, planID string) error {
	path := filepath.Join(dataDir, fmt.Sprintf("%s.jsonl", planID))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No data yet, not an error
		}
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var observations []Observation
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var o Observation
		if err := json.Unmarshal(scanner.Bytes(), &o); err != nil {
			log.Warn().Err(err).Str("plan", planID).Msg("Skipping invalid JSON line in history file")
			continue
		}
		observations = append(observations, o)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading history file: %w", err)
	}

	log.Info().Str("plan", planID).Int("count", len(observations)).Msg("Loaded observations from history file")
	s.Append(planID, observations)
	return nil
}

// Save persists observations for the given plan to a JSONL file.
func (s *Store) Save(dataDir string, planID string) error {
	s.mu.RLock()
	observations := s.sets[planID]
	s.mu.RUnlock()

	if len(observations) == 0 {
		return nil
	}

	path := filepath.Join(dataDir, fmt.Sprintf("%s.jsonl", planID))
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, o := range observations {
		if err := encoder.Encode(o); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode observation: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename history file: %w", err)
	}

	log.Info().Str("plan", planID).Int("count", len(observations)).Msg("Observations saved to history file")
	return nil
}

// ReadFile loads an observation series directly from a JSONL file path,
// bypassing the store. Used by the CLI for one-shot forecasts.
func ReadFile(path string) ([]Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var observations []Observation
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var o Observation
		if err := json.Unmarshal(scanner.Bytes(), &o); err != nil {
			return nil, fmt.Errorf("invalid observation line: %w", err)
		}
		observations = append(observations, o)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading history file: %w", err)
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})
	return observations, nil
}
