package domain

import (
	"fmt"
	"sort"
)

// Attribute is a named field of a class with an optional declared type
type Attribute struct {
	Name         string `json:"name" yaml:"name"`
	DeclaredType string `json:"declared_type,omitempty" yaml:"declared_type,omitempty"`
}

// Operation is a method signature; only the parameter types are retained
type Operation struct {
	Name           string   `json:"name" yaml:"name"`
	ParameterTypes []string `json:"parameter_types,omitempty" yaml:"parameter_types,omitempty"`
}

// Class represents a UML class or interface in the design model
type Class struct {
	// ID is the diagram-unique identifier (xmi:id)
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the class
	Name string `json:"name" yaml:"name"`

	// Package is the name of the enclosing package, empty when unknown
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Attributes in declaration order
	Attributes []Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Operations in declaration order
	Operations []Operation `json:"operations,omitempty" yaml:"operations,omitempty"`

	// outgoing and incoming are only mutated through DesignModel.AddEdge
	outgoing map[string]struct{}
	incoming map[string]struct{}
}

// NewClass creates a class without members or dependencies
func NewClass(id, name, pkg string) *Class {
	return &Class{
		ID:       id,
		Name:     name,
		Package:  pkg,
		outgoing: make(map[string]struct{}),
		incoming: make(map[string]struct{}),
	}
}

// AddAttribute appends an attribute
func (c *Class) AddAttribute(name, declaredType string) {
	c.Attributes = append(c.Attributes, Attribute{Name: name, DeclaredType: declaredType})
}

// AddOperation appends an operation
func (c *Class) AddOperation(name string, parameterTypes ...string) {
	c.Operations = append(c.Operations, Operation{Name: name, ParameterTypes: parameterTypes})
}

// Outgoing returns the ids this class depends on, sorted
func (c *Class) Outgoing() []string {
	return sortedKeys(c.outgoing)
}

// Incoming returns the ids of classes that depend on this class, sorted
func (c *Class) Incoming() []string {
	return sortedKeys(c.incoming)
}

// OutgoingCount returns the number of distinct dependencies
func (c *Class) OutgoingCount() int {
	return len(c.outgoing)
}

// IncomingCount returns the number of distinct dependents
func (c *Class) IncomingCount() int {
	return len(c.incoming)
}

// DependsOn reports whether an edge from this class to id exists
func (c *Class) DependsOn(id string) bool {
	_, ok := c.outgoing[id]
	return ok
}

// DesignModel holds the classes of one diagram and their dependency edges.
// Classes are kept in insertion order.
type DesignModel struct {
	classes map[string]*Class
	order   []string
	edges   int
}

// NewDesignModel creates an empty design model
func NewDesignModel() *DesignModel {
	return &DesignModel{
		classes: make(map[string]*Class),
	}
}

// AddClass registers a class. The id must be non-empty and unused.
func (m *DesignModel) AddClass(c *Class) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("%w: class id is empty", ErrInvalidClass)
	}
	if _, exists := m.classes[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, c.ID)
	}
	if len(c.outgoing) > 0 || len(c.incoming) > 0 {
		return fmt.Errorf("%w: %s already has dependencies", ErrInvalidClass, c.ID)
	}
	if c.outgoing == nil {
		c.outgoing = make(map[string]struct{})
	}
	if c.incoming == nil {
		c.incoming = make(map[string]struct{})
	}
	m.classes[c.ID] = c
	m.order = append(m.order, c.ID)
	return nil
}

// AddEdge records that class "from" depends on class "to".
// Both ids must be known and distinct. Adding an existing edge is a no-op.
func (m *DesignModel) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfEdge, from)
	}
	src, ok := m.classes[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClass, from)
	}
	dst, ok := m.classes[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClass, to)
	}
	if _, exists := src.outgoing[to]; exists {
		return nil
	}
	src.outgoing[to] = struct{}{}
	dst.incoming[from] = struct{}{}
	m.edges++
	return nil
}

// Class returns the class with the given id, or nil
func (m *DesignModel) Class(id string) *Class {
	return m.classes[id]
}

// Classes returns all classes in insertion order
func (m *DesignModel) Classes() []*Class {
	result := make([]*Class, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.classes[id])
	}
	return result
}

// Len returns the number of classes
func (m *DesignModel) Len() int {
	return len(m.order)
}

// EdgeCount returns the number of distinct dependency edges
func (m *DesignModel) EdgeCount() int {
	return m.edges
}

// Edges returns every dependency edge in class insertion order
func (m *DesignModel) Edges() []ClassEdge {
	edges := make([]ClassEdge, 0, m.edges)
	for _, id := range m.order {
		for _, to := range m.classes[id].Outgoing() {
			edges = append(edges, ClassEdge{From: id, To: to})
		}
	}
	return edges
}

// ClassEdge is a directed dependency between two class ids
type ClassEdge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
