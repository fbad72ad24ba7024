package account

import (
	"errors"
	"fmt"

	"github.com/vfg2006/income-report-api/pkg/apiErrors"
)

// Erros específicos para o contexto de contas
var (
	// Erros de validação
	ErrMissingEmail = errors.New("email é obrigatório")
	ErrInvalidEmail = errors.New("email inválido")
	ErrInvalidRole  = errors.New("role inválido")

	// Erros de regra de negócio
	ErrAccountNotFound      = errors.New("conta não encontrada")
	ErrAccountAlreadyExists = errors.New("email já cadastrado")
	ErrSelfDeactivation     = errors.New("não é possível desativar a própria conta")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
	ErrHashPassword      = errors.New("erro ao gerar hash da senha")
)

// AccountError é um erro com contexto adicional para contas
type AccountError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	AccountID int64  // ID da conta envolvida (quando aplicável)
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AccountError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AccountError) Unwrap() error {
	return e.Err
}

// NewAccountError cria um novo AccountError
func NewAccountError(err error, code string, details string) *AccountError {
	return &AccountError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewAccountErrorWithID cria um novo AccountError com ID da conta
func NewAccountErrorWithID(err error, code string, accountID int64, details string) *AccountError {
	return &AccountError{
		Err:       err,
		Code:      code,
		AccountID: accountID,
		Details:   details,
	}
}

func notFound(id int64) *AccountError {
	return NewAccountErrorWithID(ErrAccountNotFound, apiErrors.ErrAccountNotFound, id, fmt.Sprintf("Conta %d não encontrada", id))
}

func databaseError(details string) *AccountError {
	return NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, details)
}
