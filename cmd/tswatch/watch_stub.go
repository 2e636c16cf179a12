//go:build !windows

package main

import (
	"errors"
	"log/slog"
)

func watch(_ *slog.Logger, _ options) error {
	return errors.New("tswatch needs the Windows touch message stream; use tsprint for the portable demo")
}
