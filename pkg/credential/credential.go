// Package credential gera e confere hashes de senha.
package credential

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 12

// Hasher transforma senhas em texto puro em hashes e os confere depois
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher usa bcrypt.DefaultCost quando o custo está fora da faixa aceita
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify devolve false para senha errada e também para hash malformado
func (h *bcryptHasher) Verify(plain, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// DefaultPassword é a parte do email antes do primeiro "@"
func DefaultPassword(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
