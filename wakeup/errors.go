package wakeup

import "github.com/pkg/errors"

func newWakeupErr(msg string) error { return errors.New(msg) }
