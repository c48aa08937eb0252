//go:build wireinject

package main

import (
	"github.com/google/wire"
)

func BuildApp(args Args) (*App, func(), error) {
	wire.Build(
		ProvideSettings,
		ProvideLogger,
		ProvideStore,
		ProvideSource,
		ProvidePalette,
		ProvideApp,
	)
	return nil, nil, nil
}
