package engine

// Export internal functions for testing.
// This file uses the _test.go suffix so it's only included in test builds.

// SharedTables reports whether two calls for the same precision return the
// same table instance.
func SharedTables[F float32 | float64]() bool {
	return tablesFor[F]() == tablesFor[F]()
}
