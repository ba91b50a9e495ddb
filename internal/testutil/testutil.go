// Package testutil provides helper functions for testing archscan components
package testutil

import (
	"reflect"
	"testing"

	"github.com/ludo-technologies/archscan/domain"
)

// ModelBuilder assembles a design model for tests
type ModelBuilder struct {
	t     *testing.T
	model *domain.DesignModel
}

// NewModelBuilder creates an empty builder
func NewModelBuilder(t *testing.T) *ModelBuilder {
	t.Helper()
	return &ModelBuilder{t: t, model: domain.NewDesignModel()}
}

// Class adds a class whose id equals its name
func (b *ModelBuilder) Class(name, pkg string) *ModelBuilder {
	b.t.Helper()
	return b.ClassWithID(name, name, pkg)
}

// ClassWithID adds a class with an explicit id
func (b *ModelBuilder) ClassWithID(id, name, pkg string) *ModelBuilder {
	b.t.Helper()
	if err := b.model.AddClass(domain.NewClass(id, name, pkg)); err != nil {
		b.t.Fatalf("Failed to add class %s: %v", id, err)
	}
	return b
}

// Attributes appends attributes to class id
func (b *ModelBuilder) Attributes(id string, names ...string) *ModelBuilder {
	b.t.Helper()
	c := b.mustClass(id)
	for _, n := range names {
		c.AddAttribute(n, "")
	}
	return b
}

// Operations appends parameterless operations to class id
func (b *ModelBuilder) Operations(id string, names ...string) *ModelBuilder {
	b.t.Helper()
	c := b.mustClass(id)
	for _, n := range names {
		c.AddOperation(n)
	}
	return b
}

// Edge adds a dependency from -> to
func (b *ModelBuilder) Edge(from, to string) *ModelBuilder {
	b.t.Helper()
	if err := b.model.AddEdge(from, to); err != nil {
		b.t.Fatalf("Failed to add edge %s -> %s: %v", from, to, err)
	}
	return b
}

// Star makes every leaf depend on hub
func (b *ModelBuilder) Star(hub string, leaves ...string) *ModelBuilder {
	b.t.Helper()
	for _, leaf := range leaves {
		b.Edge(leaf, hub)
	}
	return b
}

// Build returns the assembled model
func (b *ModelBuilder) Build() *domain.DesignModel {
	return b.model
}

func (b *ModelBuilder) mustClass(id string) *domain.Class {
	b.t.Helper()
	c := b.model.Class(id)
	if c == nil {
		b.t.Fatalf("Unknown class %s", id)
	}
	return c
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected and actual are not deeply equal
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertFloatEqual fails the test if the values differ by more than 1e-9
func AssertFloatEqual(t *testing.T, expected, actual float64) {
	t.Helper()
	diff := expected - actual
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}
