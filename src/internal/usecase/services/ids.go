package services

import "github.com/google/uuid"

// requireID returns notFound for ids that cannot name a stored row. Accounts,
// teams and tasks are all keyed by UUID.
func requireID(id string, notFound error) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound
	}
	return nil
}
