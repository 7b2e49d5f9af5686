// Package domain holds DTOs for walker http and service contracts
package domain

import (
	"sylwalk/internal/core/corpus"
	"sylwalk/internal/core/neighbor"
	"sylwalk/internal/core/profile"
)

// WalkInput is the input for a single walk
// a missing start picks one from the seed, a missing seed draws a fresh one
type WalkInput struct {
	Start     *string     `json:"start,omitempty" validate:"omitempty,syllable" example:"ka"`
	Profile   profile.Ref `json:"profile,omitempty" swaggertype:"string" example:"dialect"`
	Seed      *int64      `json:"seed,omitempty" example:"42"`
	AllowStay *bool       `json:"allow_stay,omitempty" example:"false"`
	Steps     *int        `json:"steps,omitempty" validate:"omitempty,min=1,max=10000" example:"5"`
}

// BatchInput is the input for a batch of walks sharing one base seed
type BatchInput struct {
	Count     int         `json:"count" validate:"required,min=1,max=10000" example:"100"`
	BaseSeed  *int64      `json:"base_seed" validate:"required" example:"7"`
	Profile   profile.Ref `json:"profile,omitempty" swaggertype:"string" example:"goblin"`
	Start     *string     `json:"start,omitempty" validate:"omitempty,syllable" example:"ka"`
	AllowStay *bool       `json:"allow_stay,omitempty" example:"false"`
	Steps     *int        `json:"steps,omitempty" validate:"omitempty,min=1,max=10000" example:"5"`
}

// Syllable is one visited syllable, Distance is the flip count of the move that reached it
type Syllable struct {
	Index     int    `json:"index"`
	Syllable  string `json:"syllable"`
	Frequency int    `json:"frequency"`
	Features  []bool `json:"features"`
	Distance  int    `json:"distance"`
}

// DeadEnd locates the state a walk could not leave
type DeadEnd struct {
	Step     int    `json:"step"`
	Index    int    `json:"index"`
	Syllable string `json:"syllable"`
	Message  string `json:"message"`
}

// WalkResult is one walk, Walk starts with the start syllable
type WalkResult struct {
	ID         string          `json:"id"`
	Walk       []Syllable      `json:"walk"`
	Profile    profile.Profile `json:"profile"`
	Start      string          `json:"start"`
	Seed       int64           `json:"seed"`
	AllowStay  bool            `json:"allow_stay"`
	StepsTaken int             `json:"steps_taken"`
	Completed  bool            `json:"completed"`
	DeadEnd    *DeadEnd        `json:"dead_end,omitempty"`
}

// BatchWalk is one completed walk of a batch
type BatchWalk struct {
	Index int `json:"index"`
	WalkResult
}

// Failure is one walk of a batch that did not complete
type Failure struct {
	Index    int         `json:"index"`
	Kind     string      `json:"kind"`
	Step     *int        `json:"step,omitempty"`
	Syllable string      `json:"syllable,omitempty"`
	Message  string      `json:"message"`
	Partial  *WalkResult `json:"partial,omitempty"`
}

// BatchResult lists completed walks and failures, each ascending by index
type BatchResult struct {
	ID       string          `json:"id"`
	Count    int             `json:"count"`
	BaseSeed int64           `json:"base_seed"`
	Profile  profile.Profile `json:"profile"`
	Walks    []BatchWalk     `json:"walks"`
	Failures []Failure       `json:"failures"`
}

// Stats describes the loaded corpus and the graph walks run on
type Stats struct {
	TotalSyllables      int            `json:"total_syllables"`
	MaxNeighborDistance int            `json:"max_neighbor_distance"`
	Source              SourceInfo     `json:"source"`
	Corpus              corpus.Stats   `json:"corpus"`
	Graph               neighbor.Stats `json:"graph"`
	GraphsBuilt         []int          `json:"graphs_built"`
}

// SourceInfo names where the corpus came from
type SourceInfo struct {
	Kind     string            `json:"kind"`
	Location string            `json:"location,omitempty"`
	Rows     int               `json:"rows,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SyllableDetail is one corpus entry matching a text lookup
type SyllableDetail struct {
	Syllable
	Degree    int        `json:"degree"`
	Neighbors []Syllable `json:"neighbors"`
}
