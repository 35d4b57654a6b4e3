package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Form() FormRepository
	Submission() SubmissionRepository

	Close() error
}
