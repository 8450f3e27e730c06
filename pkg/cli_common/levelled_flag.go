package clicommon

import (
	"fmt"
	"strconv"
)

// LevelledFlag is a boolean flag that counts how often it is given: `-vv` sets it to 2. `--verbose=false`
// lowers it by one and `--verbose=3` sets it directly.
type LevelledFlag int

func (f *LevelledFlag) Set(s string) error {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return fmt.Errorf("level must not be negative, got %d", n)
		}
		*f = LevelledFlag(n)
		return nil
	}
	on, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("expected a boolean or a level, got %q", s)
	}
	switch {
	case on:
		*f++
	case *f > 0:
		*f--
	}
	return nil
}

func (f *LevelledFlag) Type() string {
	return "level"
}

func (f *LevelledFlag) String() string {
	return strconv.Itoa(int(*f))
}
