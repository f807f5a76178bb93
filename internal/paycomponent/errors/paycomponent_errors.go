package paycomponenterrors

import (
	"net/http"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

var (
	ErrAllowanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Allowance not found",
		http.StatusNotFound,
	)
	ErrBonusNotFound = apperror.New(
		apperror.CodeNotFound,
		"Bonus not found",
		http.StatusNotFound,
	)
	ErrDeductionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Deduction not found",
		http.StatusNotFound,
	)
	ErrOvertimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Overtime adjustment not found",
		http.StatusNotFound,
	)
	ErrInvalidComponentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid component ID",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateWindow = apperror.New(
		apperror.CodeInvalidInput,
		"effective_from must not be after effective_to",
		http.StatusBadRequest,
	)
	ErrInvalidPercent = apperror.New(
		apperror.CodeInvalidInput,
		"Percent value must be between 0 and 100",
		http.StatusBadRequest,
	)
)
