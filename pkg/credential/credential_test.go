package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("s3nh@Forte")
	require.NoError(t, err)
	assert.NotEqual(t, "s3nh@Forte", digest)

	assert.True(t, hasher.Verify("s3nh@Forte", digest))
	assert.False(t, hasher.Verify("s3nh@forte", digest))
	assert.False(t, hasher.Verify("", digest))
	assert.False(t, hasher.Verify("s3nh@Forte", ""))
	assert.False(t, hasher.Verify("s3nh@Forte", "não-é-um-hash"))
}

func TestBcryptHasher_SaltDiferenteACadaHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("mesma-senha")
	require.NoError(t, err)
	second, err := hasher.Hash("mesma-senha")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("mesma-senha", first))
	assert.True(t, hasher.Verify("mesma-senha", second))
}

func TestNewBcryptHasher_CustoForaDaFaixa(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "custo padrão do painel", cost: DefaultCost, want: DefaultCost},
		{name: "custo zero", cost: 0, want: bcrypt.DefaultCost},
		{name: "custo acima do máximo", cost: bcrypt.MaxCost + 1, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBcryptHasher(tt.cost).(*bcryptHasher)
			assert.Equal(t, tt.want, h.cost)
		})
	}
}

func TestDefaultPassword(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{email: "jane.doe@example.com", want: "jane.doe"},
		{email: "admin@gi.co.th", want: "admin"},
		{email: "a@b@c", want: "a"},
		{email: "sem-arroba", want: "sem-arroba"},
		{email: "@vazio.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultPassword(tt.email))
		})
	}
}
