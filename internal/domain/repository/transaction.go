package repository

import "context"

// RepositoryFactory hands out repository instances bound to one transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
	CredentialRepo() CredentialRepository
}

// TransactionManager runs a unit of work atomically against the identity
// store. Registration writes the user and their credential in one transaction.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
