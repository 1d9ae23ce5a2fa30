// Package di contains dependency injection tokens for the txcompose context.
package di

import (
	"github.com/deeparb/deeparb/business/txcompose/app"
	"github.com/deeparb/deeparb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ComposeService   = di.NewToken[*app.ComposeService]("txcompose.ComposeService")
	ManagerDirectory = di.NewToken[*app.ManagerDirectory]("txcompose.ManagerDirectory")
)

// Helper functions for type-safe access
func GetComposeService(c di.ServiceRegistry) *app.ComposeService {
	return di.GetToken(c, ComposeService)
}

func GetManagerDirectory(c di.ServiceRegistry) *app.ManagerDirectory {
	return di.GetToken(c, ManagerDirectory)
}
