package filesystem

import "errors"

// ============================================================================
// Standard Filesystem Errors
// ============================================================================

// These errors provide a consistent way to indicate failure conditions
// across the virtual filesystem. Adapter layers (the browser-shaped handle
// wrappers) check for these with errors.Is and map them to DOMException
// names.
//
// Error Wrapping:
// Operations wrap these sentinels with contextual detail:
//
//	if _, ok := fs.registry[path]; ok {
//	    return fmt.Errorf("path %q: %w", path, ErrExists)
//	}

var (
	// ErrNotFound indicates the requested path or descriptor has no
	// backing record.
	//
	// This error is returned when:
	//   - ReadFile/WriteFile is called with a stale or copied descriptor
	//   - GetFileDescriptor/GetDirectoryDescriptor miss without create
	//   - MakeDirectory's immediate parent is absent and recursive is off
	//
	// Adapter mapping: NotFoundError
	ErrNotFound = errors.New("entry not found")

	// ErrExists indicates a path is already registered.
	//
	// This error is returned when:
	//   - MakeDirectory targets an existing path
	//   - CreateFile targets an existing path
	//
	// Adapter mapping: TypeMismatchError or InvalidModificationError
	// depending on the operation.
	ErrExists = errors.New("entry already exists")

	// ErrTypeMismatch indicates the entry at a path is not of the
	// requested kind (a file where a directory was expected, or the
	// reverse), including file segments in the middle of a directory
	// chain.
	//
	// Adapter mapping: TypeMismatchError
	ErrTypeMismatch = errors.New("entry type mismatch")

	// ErrQuotaExceeded indicates an allocation would push used disk space
	// past the configured total.
	//
	// This error is returned when:
	//   - CreateFile's initial size exceeds free space
	//   - WriteFile's replacement content exceeds free space plus the
	//     file's current footprint
	//
	// Adapter mapping: QuotaExceededError
	ErrQuotaExceeded = errors.New("disk quota exceeded")

	// ErrInvalidModification indicates a structurally illegal mutation,
	// such as removing a non-empty directory without the recursive flag.
	//
	// Adapter mapping: InvalidModificationError
	ErrInvalidModification = errors.New("invalid modification")

	// ErrInvalidArgument indicates a malformed parameter: removing the
	// root, or shrinking total disk space below current usage.
	//
	// Adapter mapping: TypeError
	ErrInvalidArgument = errors.New("invalid argument")
)
