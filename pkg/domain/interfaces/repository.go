package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Assessment() AssessmentRepository
	ActionItem() ActionItemRepository
	Framework() FrameworkRepository

	// Close releases the underlying connection of the backend, if any
	Close() error
}
