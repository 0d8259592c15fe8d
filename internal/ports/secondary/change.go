package secondary

import "context"

// ChangePublisher defines the secondary port for broadcasting saved changes
// to other sessions.
type ChangePublisher interface {
	// PublishChange announces that a storage key was saved.
	PublishChange(ctx context.Context, event ChangeEvent) error
}

// ChangeSubscriber defines the secondary port for following changes saved
// by other sessions.
type ChangeSubscriber interface {
	// Subscribe calls handle for every change until ctx is done.
	Subscribe(ctx context.Context, handle func(ChangeEvent)) error
}

// ChangeEvent describes one successful save.
type ChangeEvent struct {
	Key     string `json:"key"`
	Session string `json:"session"`
	SavedAt string `json:"savedAt"`
}
