package model

import "fmt"

// CharacterClass задаёт класс персонажа и определяет стартовые атрибуты
// и какой диапазон атаки (физический или магический) использует урон.
type CharacterClass uint8

const (
	ClassNone CharacterClass = iota
	ClassWarrior
	ClassMage
	ClassRanger

	classCount
)

var classNames = [classCount]string{
	ClassNone:    "None",
	ClassWarrior: "Warrior",
	ClassMage:    "Mage",
	ClassRanger:  "Ranger",
}

// UsesMagicAttack reports whether the class deals damage from the magic attack range.
func (c CharacterClass) UsesMagicAttack() bool {
	return c == ClassMage
}

func (c CharacterClass) String() string {
	if c < classCount {
		return classNames[c]
	}
	return fmt.Sprintf("CharacterClass(%d)", uint8(c))
}

// ParseCharacterClass returns the class with the given name.
func ParseCharacterClass(s string) (CharacterClass, error) {
	for i, name := range classNames {
		if name == s {
			return CharacterClass(i), nil
		}
	}
	return ClassNone, fmt.Errorf("unknown character class %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CharacterClass) UnmarshalText(text []byte) error {
	v, err := ParseCharacterClass(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c CharacterClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
