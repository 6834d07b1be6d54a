package ugg

// ItemOption holds item ID with win rate
type ItemOption struct {
	ItemID  int
	WinRate float64
	Games   int
}

// BuildPath represents a single build path aggregated across regions
type BuildPath struct {
	WinRate           float64
	Games             int
	StartingItems     []int
	CoreItems         []int
	FourthItemOptions []ItemOption
	FifthItemOptions  []ItemOption
	SixthItemOptions  []ItemOption
}

// SkillPath is a skill order aggregated across regions
type SkillPath struct {
	WinRate float64
	Games   int
	Order   []string
}

// RoleStats holds everything parsed for a champion in one role
type RoleStats struct {
	Role   string
	Games  int
	Builds []BuildPath // Sorted by games descending
	Skills []SkillPath // Sorted by games descending
}
