package usecase

const (
	// DefaultListLimit is applied when a caller requests a listing
	// without an explicit page size.
	DefaultListLimit = 20

	// MaxListLimit caps a single listing page.
	MaxListLimit = 100
)
