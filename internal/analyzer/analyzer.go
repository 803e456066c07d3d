package analyzer

import (
	"reflect"

	"github.com/toyz/vessel/internal/graph"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/typeinfo"
)

// Analyze populates g with one node per produced type and an edge from every
// dependency to the type that needs it.
//
// Nodes are added before any edge so that the graph's first-referenced order
// follows registration: factory products, then components, then controllers.
// Dependencies nobody provides still become nodes; the initializer skips
// them and reports the unresolved field on the dependent instead.
func Analyze(components, controllers []*models.ComponentDefinition, factories []*models.FactoryDefinition, g *graph.Graph[reflect.Type]) {
	for _, f := range factories {
		g.AddNode(f.Produces)
	}
	for _, def := range components {
		g.AddNode(def.Type)
	}
	for _, def := range controllers {
		g.AddNode(def.Type)
	}

	for _, f := range factories {
		for _, p := range f.Parameters {
			addDependency(g, p.Type, f.Produces)
		}
	}
	for _, def := range components {
		for _, dep := range def.Dependencies {
			addDependency(g, dep.Type, def.Type)
		}
	}
	for _, def := range controllers {
		for _, dep := range def.Dependencies {
			addDependency(g, dep.Type, def.Type)
		}
	}

	// a factory can only run once its configuration exists
	for _, f := range factories {
		g.AddEdge(f.Owner, f.Produces)
	}
}

func addDependency(g *graph.Graph[reflect.Type], dependency, owner reflect.Type) {
	if !typeinfo.IsInjectable(dependency) {
		return
	}
	g.AddEdge(dependency, owner)
}
