package commands

import "errors"

var (
	errNoProfile  = errors.New("this command needs --profile")
	errUnresolved = errors.New("some sources could not be resolved")
)
