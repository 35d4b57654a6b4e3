package memory

import (
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	form       *formRepository
	submission *submissionRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		form:       newFormRepository(),
		submission: newSubmissionRepository(),
	}
}

func (m *Memory) Form() interfaces.FormRepository {
	return m.form
}

func (m *Memory) Submission() interfaces.SubmissionRepository {
	return m.submission
}

func (m *Memory) Close() error {
	return nil
}
