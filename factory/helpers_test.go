package factory_test

import (
	"testing"

	"github.com/plus3/weaver/factory"
	"github.com/plus3/weaver/graph"
	"github.com/plus3/weaver/internal/testfactory"
	"github.com/plus3/weaver/production"
	"github.com/stretchr/testify/require"
)

// optimize builds the single sub-factory of a connected test planet.
func optimize(t *testing.T, p *testfactory.Planet) *factory.SubFactory {
	t.Helper()
	graphs, err := graph.ToGraphs(p.Factory)
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	sf := factory.NewSubFactory(p.Planet, factory.BuildTraffic(p.Factory))
	require.NoError(t, sf.Initialize(graphs[0], production.NewPlanetWideProductionRegisterBuilder()))
	return sf
}
