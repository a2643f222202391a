package data

// LevelInfo is one row of the level table.
type LevelInfo struct {
	// Requirement: накопленный опыт, необходимый чтобы покинуть этот уровень.
	Requirement     int64 `yaml:"requirement"`
	AttributePoints int32 `yaml:"attribute_points"`
	SkillPoints     int32 `yaml:"skill_points"`
}

// LevelTable maps levels to requirements and awards.
// Index 0 is a placeholder; index 1 describes level 1.
type LevelTable []LevelInfo

// NewLevelTable builds a table from rows starting at level 1.
func NewLevelTable(rows []LevelInfo) LevelTable {
	t := make(LevelTable, 0, len(rows)+1)
	t = append(t, LevelInfo{})
	return append(t, rows...)
}

// MaxLevel returns the highest reachable level.
func (t LevelTable) MaxLevel() int32 {
	if len(t) < 2 {
		return 1
	}
	return int32(len(t) - 1)
}

// LevelForExp returns the level reached with exp accumulated experience.
// The scan starts at level 1 and stops at the last row.
func (t LevelTable) LevelForExp(exp int64) int32 {
	level := int32(1)
	for int32(len(t))-1 > level && exp >= t[level].Requirement {
		level++
	}
	return level
}

// Awards returns the attribute and skill points granted on reaching level.
func (t LevelTable) Awards(level int32) (attributePoints, skillPoints int32) {
	if level < 1 || int(level) >= len(t) {
		return 0, 0
	}
	return t[level].AttributePoints, t[level].SkillPoints
}
