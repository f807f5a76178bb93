package unpaidleaveerrors

import (
	"net/http"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

var (
	ErrUnpaidLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Unpaid leave record not found",
		http.StatusNotFound,
	)
	ErrInvalidUnpaidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid unpaid leave ID",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be after end_date",
		http.StatusBadRequest,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"Unpaid leave has already been processed",
		http.StatusConflict,
	)
	ErrNoSalaryForDeduction = apperror.New(
		apperror.CodeInvalidState,
		"Employee has no salary record to derive the deduction from",
		http.StatusConflict,
	)
	ErrProcessedRowImmutable = apperror.New(
		apperror.CodeInvalidState,
		"Processed unpaid leave records cannot be deleted",
		http.StatusConflict,
	)
)
