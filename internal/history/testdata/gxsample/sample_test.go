package gxsample

// TestOnly must not be scanned.
//
// .. versionadded:: 9.9
func TestOnly() {}
