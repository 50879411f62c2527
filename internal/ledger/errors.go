package ledger

import "errors"

var (
	ErrMalformedCode      = errors.New("malformed account code")
	ErrPrefixMismatch     = errors.New("code prefix does not match parent")
	ErrDuplicateName      = errors.New("name already exists")
	ErrHasChildren        = errors.New("node has children and cannot be deleted")
	ErrAccountInUse       = errors.New("account is referenced by journal lines")
	ErrUnbalancedEntry    = errors.New("entry debits and credits do not balance")
	ErrInsufficientLines  = errors.New("entry must have at least 2 lines")
	ErrInvalidLine        = errors.New("line must have exactly one of debit or credit")
	ErrDraftNotValidated  = errors.New("draft has not been validated")
	ErrUnrecognizedLayout = errors.New("spreadsheet layout not recognized")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPlanNotFound       = errors.New("plan not found")
	ErrNodeNotFound       = errors.New("catalog node not found")
	ErrBookNotFound       = errors.New("journal book not found")
	ErrEntryNotFound      = errors.New("journal entry not found")
	ErrDuplicateBook      = errors.New("book already exists for this period")
)
