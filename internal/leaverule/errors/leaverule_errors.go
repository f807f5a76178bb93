package leaveruleerrors

import (
	"net/http"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
)

var (
	ErrRuleNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave rule not found",
		http.StatusNotFound,
	)
	ErrInvalidRuleID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave rule ID",
		http.StatusBadRequest,
	)
	ErrInvalidGradeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid grade ID",
		http.StatusBadRequest,
	)
	ErrRuleExistsForGrade = apperror.New(
		apperror.CodeConflict,
		"A leave rule already exists for this grade",
		http.StatusConflict,
	)
)
