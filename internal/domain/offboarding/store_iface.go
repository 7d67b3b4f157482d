package offboarding

import (
	"context"

	"hradmin/internal/domain/directory"
)

type StoreAPI interface {
	Create(ctx context.Context, rec *ExitRecord) error
	Get(ctx context.Context, id string) (*ExitRecord, error)
	GetByEmployee(ctx context.Context, employeeID string) (*ExitRecord, error)
	List(ctx context.Context, filter Filter, limit, offset int) (ListResult, error)
	// Update writes the aggregate with a compare-and-swap on rec.Version and
	// increments it on success. Returns ErrVersionConflict when the stored
	// version moved.
	Update(ctx context.Context, rec *ExitRecord) error
	// Finalize archives the record and deactivates the employee in one
	// transaction, with the same version check as Update.
	Finalize(ctx context.Context, rec *ExitRecord) error
}

// DirectoryAPI is the employee-directory collaborator contract.
type DirectoryAPI interface {
	FindByID(ctx context.Context, id string) (directory.Employee, error)
}

// Dispatcher delivers a generated document's link to an employee's contact
// address. A non-nil error means nothing was delivered.
type Dispatcher interface {
	SendDocumentLink(ctx context.Context, address, displayName, documentType, url string) error
}

// Renderer is the document-renderer boundary; the workflow only stores the
// URL it hands back.
type Renderer interface {
	DocumentURL(recordID string, key DocumentKey) string
}
