package statutoryerrors

import (
	"net/http"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

var (
	ErrConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"No EPF/ETF configuration for this employee",
		http.StatusNotFound,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"Contribution rates must be between 0 and 100 percent",
		http.StatusBadRequest,
	)
	ErrTransactionNotFound = apperror.New(
		apperror.CodeNotFound,
		"EPF/ETF transaction not found",
		http.StatusNotFound,
	)
)
