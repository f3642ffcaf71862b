package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{
		"order-service", "kitchen-service", "tracking-service",
		"notification-subscriber", "kitchen-display", "migrate",
	} {
		cmd := app.Command(name)
		require.NotNil(t, cmd, name)
		assert.NotNil(t, cmd.Action, name)
	}
}
