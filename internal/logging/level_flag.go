package logging

import (
	"github.com/spf13/pflag"
)

// LevelFlag is a pflag.Value that sets the level of a logger when parsed.
type LevelFlag struct {
	logger *Logger
	value  string
}

// NewLevelFlag returns a flag bound to logger.
func NewLevelFlag(logger *Logger) *LevelFlag {
	return &LevelFlag{logger: logger}
}

func (f *LevelFlag) Set(value string) error {
	level, err := ParseLevel(value)
	if err != nil {
		return err
	}
	f.logger.SetLevel(level)
	f.value = value
	return nil
}

func (f *LevelFlag) String() string {
	if f.value == "" && f.logger != nil {
		return f.logger.Level().String()
	}
	return f.value
}

func (*LevelFlag) Type() string {
	return "level"
}

var _ pflag.Value = &LevelFlag{}
