package firestore

import "github.com/secmon-lab/conformity/pkg/domain/interfaces"

var (
	ErrNotFound      = interfaces.ErrNotFound
	ErrAlreadyExists = interfaces.ErrAlreadyExists
)
