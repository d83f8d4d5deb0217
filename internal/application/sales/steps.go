package sales

// Operaciones del orquestador.
const (
	OpCreate = "create"
	OpEdit   = "edit"
	OpDelete = "delete"
)

// Pasos de las máquinas de estado de create, edit y delete.
const (
	StepValidating         = "validating"
	StepVerifyingStock     = "verifying_stock"
	StepInsertingHeader    = "inserting_header"
	StepInsertingLineItems = "inserting_line_items"
	StepAdjustingStock     = "adjusting_stock"

	StepRestoringOldStock  = "restoring_old_stock"
	StepVerifyingNewStock  = "verifying_new_stock"
	StepRevertingRestore   = "reverting_restore"
	StepUpdatingHeader     = "updating_header"
	StepReplacingLineItems = "replacing_line_items"
	StepDeductingNewStock  = "deducting_new_stock"

	StepRestoringStock    = "restoring_stock"
	StepDeletingLineItems = "deleting_line_items"
	StepDeletingHeader    = "deleting_header"

	StepDone = "done"
)

// Resultados registrados por operación.
const (
	OutcomeSuccess           = "success"
	OutcomeValidation        = "validation_error"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeNoActiveTenant    = "no_active_tenant"
	OutcomePartialFailure    = "partial_failure"
	OutcomeError             = "error"
)
