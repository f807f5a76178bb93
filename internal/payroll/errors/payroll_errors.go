package payrollerrors

import (
	"net/http"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

var (
	ErrTransferNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll transfer not found",
		http.StatusNotFound,
	)
	ErrInvalidTransferID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid payroll transfer ID",
		http.StatusBadRequest,
	)
	ErrTransferNotProcessing = apperror.New(
		apperror.CodeInvalidState,
		"Payroll transfer is not in Processing state",
		http.StatusConflict,
	)
)
