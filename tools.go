//go:build tools

// Package tools pins CLI tool dependencies so `go mod tidy` keeps them.
package tools

import (
	_ "github.com/cucumber/godog/cmd/godog"
	_ "github.com/swaggo/swag/cmd/swag"
)
