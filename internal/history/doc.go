// Package history builds the SDK version-history page.
//
// Symbols come from YAML manifests or from the exported API of Go source
// packages. Each symbol's documentation may carry a marker such as
//
//	.. versionadded:: 9.2
//
// and the first marker decides the version bucket. Symbols without a
// marker, private symbols and versions below the configured floor are left
// out. Buckets keep classes (:class: and :exc:) apart from functions
// (:func:), each sorted by rendered reference, and are listed newest first.
package history
