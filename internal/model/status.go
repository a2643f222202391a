package model

import "fmt"

// Status is a debuff status tag carried by an active periodic effect.
type Status uint8

const (
	StatusNone Status = iota
	StatusBurn
	StatusFrozen
	StatusStun
	StatusBleed

	statusCount
)

var statusNames = [statusCount]string{
	StatusNone:   "None",
	StatusBurn:   "Burn",
	StatusFrozen: "Frozen",
	StatusStun:   "Stun",
	StatusBleed:  "Bleed",
}

func (s Status) String() string {
	if s < statusCount {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// ParseStatus returns the status with the given name.
func ParseStatus(str string) (Status, error) {
	for i, name := range statusNames {
		if name == str {
			return Status(i), nil
		}
	}
	return StatusNone, fmt.Errorf("unknown status %q", str)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
