package main

import (
	"fmt"
	"time"
)

// timeoutFlag is a duration flag whose zero value means "not given".
type timeoutFlag struct {
	time.Duration
}

func (f *timeoutFlag) Set(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", d)
	}
	f.Duration = d
	return nil
}

func (f *timeoutFlag) String() string {
	if f.Duration == 0 {
		return ""
	}
	return f.Duration.String()
}

func (f *timeoutFlag) Type() string {
	return "duration"
}
