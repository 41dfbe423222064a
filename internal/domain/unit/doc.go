// Package unit implements the domain layer for the dependency-declaration engine.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines entity types (Declaration, Registry) and value objects (Name, Requirement, Result)
//   - Implements domain logic (wildcard expansion, DFS cycle detection, dependency-order traversal)
//   - Has no knowledge of infrastructure concerns (file I/O, logging, caches)
//
// # Core Types
//
// Registry holds named unit declarations. Each Declaration carries an ordered
// list of Requirements (exact name, prefix wildcard, or global wildcard) and a
// one-shot Action. Once resolution begins the registry is frozen and no
// further declarations or requirements are accepted.
//
// Requirement matching is a pure function over a snapshot of the declared-name
// set, so resolution never depends on declaration order. Wildcard matches come
// back in lexicographic order, which makes the whole resolve pass
// deterministic.
//
// # Initialization
//
// Registry.Init resolves the graph (expanding wildcards, rejecting unknown
// exact dependencies and any unit that transitively depends on itself) and
// then invokes every unit's Action exactly once, each strictly after all of
// its resolved dependencies. Produced values are assembled into a Space, the
// hierarchical namespace tree, which each Action can read through the View it
// receives.
//
// # Pick
//
// Registry.Pick copies a subset of declarations (plus their transitive
// dependency closure) from a source registry, and can inject externally
// constructed constants as synthetic zero-dependency units. A failed pick
// leaves the target registry untouched.
//
// # Errors
//
// All failures wrap one of three broad kinds (ErrDeclaration, ErrResolution,
// ErrOptions) through per-condition sentinels, so callers can classify with
// errors.Is at either level.
package unit
