package source

import (
	"errors"
	"fmt"
)

// SkillOrderLength is the number of champion levels a skill order covers
const SkillOrderLength = 18

// ErrNotImplemented is returned by primitives a source does not provide
var ErrNotImplemented = errors.New("not implemented")

// RoleRank is a role a champion is played in and its popularity rank
type RoleRank struct {
	Role string `json:"role"`
	Rank int    `json:"rank"`
}

// Champion holds roster data for one champion
type Champion struct {
	Name        string     `json:"name"`        // Internal key (e.g., "MonkeyKing")
	DisplayName string     `json:"displayName"` // e.g., "Wukong"
	ID          string     `json:"id"`          // Numeric key (e.g., "62")
	Roles       []RoleRank `json:"roles"`
}

// ItemBundle holds a full build and its starting items
type ItemBundle struct {
	Full     []string `json:"full"`
	Starters []string `json:"starters"`
}

// ItemRecommendation holds the most played and the highest win rate builds
type ItemRecommendation struct {
	Frequent ItemBundle `json:"frequent"`
	Highest  ItemBundle `json:"highest"`
}

// SkillRecommendation holds the most played and the highest win rate skill orders
type SkillRecommendation struct {
	Frequent []string `json:"frequent"`
	Highest  []string `json:"highest"`
}

// Build is one variant of an item set
type Build struct {
	Full       []string `json:"full"`
	Starters   []string `json:"starters"`
	SkillOrder []string `json:"skillOrder"`
}

// ItemSet is everything written for one champion in one role
type ItemSet struct {
	Role     string `json:"role"`
	Rank     int    `json:"rank"`
	Frequent Build  `json:"frequent"`
	Highest  Build  `json:"highest"`
}

// Source is a provider of build statistics
type Source interface {
	// Champions returns the roster with each champion's roles
	Champions() ([]Champion, error)
	// Items returns item recommendations for a champion in a role
	Items(champion Champion, role string) (ItemRecommendation, error)
	// SkillOrder returns skill order recommendations for a champion in a role
	SkillOrder(champion Champion, role string) (SkillRecommendation, error)
	// Version returns the patch label the source's data belongs to
	Version() (string, error)
}

// Unimplemented can be embedded by sources that only provide some primitives.
// Every method fails with ErrNotImplemented.
type Unimplemented struct{}

func (Unimplemented) Champions() ([]Champion, error) {
	return nil, fmt.Errorf("champions: %w", ErrNotImplemented)
}

func (Unimplemented) Items(Champion, string) (ItemRecommendation, error) {
	return ItemRecommendation{}, fmt.Errorf("items: %w", ErrNotImplemented)
}

func (Unimplemented) SkillOrder(Champion, string) (SkillRecommendation, error) {
	return SkillRecommendation{}, fmt.Errorf("skill order: %w", ErrNotImplemented)
}

func (Unimplemented) Version() (string, error) {
	return "", fmt.Errorf("version: %w", ErrNotImplemented)
}
