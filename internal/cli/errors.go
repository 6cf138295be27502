package cli

import (
	"errors"

	"github.com/aidanlsb/automoc/internal/atomicfile"
	"github.com/aidanlsb/automoc/internal/config"
	"github.com/aidanlsb/automoc/internal/index"
	"github.com/aidanlsb/automoc/internal/moc"
	"github.com/aidanlsb/automoc/internal/outline"
	"github.com/aidanlsb/automoc/internal/paths"
	"github.com/aidanlsb/automoc/internal/picker"
	"github.com/aidanlsb/automoc/internal/vault"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Note errors
	ErrNoteNotFound  = "NOTE_NOT_FOUND"
	ErrNoteAmbiguous = "NOTE_AMBIGUOUS"
	ErrNotMarkdown   = "NOT_MARKDOWN"

	// File errors
	ErrFileReadError    = "FILE_READ_ERROR"
	ErrFileWriteError   = "FILE_WRITE_ERROR"
	ErrFileModified     = "FILE_MODIFIED"
	ErrFileOutsideVault = "FILE_OUTSIDE_VAULT"

	// Index errors
	ErrDatabaseError = "DATABASE_ERROR"
	ErrIndexLocked   = "INDEX_LOCKED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrAborted         = "SELECTION_ABORTED"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnNoteSkipped       = "NOTE_SKIPPED"
	WarnIndexUpdateFailed = "INDEX_UPDATE_FAILED"
	WarnNoEditor          = "NO_EDITOR"
)

// classifyError maps an error onto a stable code and a suggestion.
func classifyError(err error) (code, suggestion string) {
	var ambiguous *vault.AmbiguousNoteError
	var readErr *outline.ReadError

	switch {
	case errors.As(err, &ambiguous):
		return ErrNoteAmbiguous, "Use the note's path relative to the vault"
	case errors.Is(err, vault.ErrNoteNotFound):
		return ErrNoteNotFound, ""
	case errors.Is(err, moc.ErrNotMarkdown):
		return ErrNotMarkdown, "Pass a .md note"
	case errors.Is(err, moc.ErrMissingItem), errors.Is(err, picker.ErrNotInteractive), errors.Is(err, picker.ErrEmpty):
		return ErrMissingArgument, ""
	case errors.Is(err, moc.ErrInvalidKind):
		return ErrInvalidInput, ""
	case errors.Is(err, picker.ErrAborted):
		return ErrAborted, ""
	case errors.Is(err, config.ErrInvalidSetting):
		return ErrConfigInvalid, "Check automoc.yaml in the vault root"
	case errors.Is(err, atomicfile.ErrModified):
		return ErrFileModified, "The note changed while links were gathered; run again"
	case errors.Is(err, paths.ErrPathOutsideVault):
		return ErrFileOutsideVault, ""
	case errors.Is(err, index.ErrIndexLocked):
		return ErrIndexLocked, "Another automoc process is rebuilding the index; try again shortly"
	case errors.Is(err, index.ErrIncompatible):
		return ErrDatabaseError, "Run 'automoc index' to rebuild it"
	case errors.As(err, &readErr):
		return ErrFileReadError, ""
	default:
		return ErrInternal, ""
	}
}

// reportError classifies err and reports it for the output mode.
func reportError(err error) error {
	code, suggestion := classifyError(err)
	var ambiguous *vault.AmbiguousNoteError
	if errors.As(err, &ambiguous) {
		return handleErrorWithDetails(code, err, suggestion, map[string]interface{}{
			"matches": ambiguous.Matches,
		})
	}
	return handleError(code, err, suggestion)
}
