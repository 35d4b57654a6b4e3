package slack

import (
	"github.com/secmon-lab/formgate/pkg/domain/interfaces"
)

// Service posts form activity to a Slack channel
type Service interface {
	interfaces.SubmissionNotifier
}
