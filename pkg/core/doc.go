// Package core contains the shared contracts of the leapdal data-access
// layer: row and packet shapes, the predicate abstraction, the SQL value
// formatter contract, row change tracking, and the error taxonomy.
//
// This package has no dependencies on the driver or access packages so that
// drivers, security providers, and the façade can all share these types
// without import cycles.
package core
