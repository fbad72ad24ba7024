package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/income-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/income-report-api/internal/domain"
)

//go:generate mockgen -source=user.go -destination=mocks/user_mock.go -package=mocks

const (
	usersTable = "users"

	uniqueViolation = "23505"
)

var ErrDuplicateEmail = errors.New("email já cadastrado")

var userColumns = []string{"id", "email", "name", "role", "is_active", "password_hash", "created_at", "updated_at"}

// UserRepository persiste as contas do painel. Leituras devolvem (nil, nil) quando a conta não existe.
type UserRepository interface {
	CreateUser(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateUser(ctx context.Context, id int64, req domain.UpdateAccountRequest) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetUserByID(ctx context.Context, id int64) (*domain.Account, error)
	ListUsers(ctx context.Context) ([]*domain.Account, error)
}

type userRepository struct {
	conn postgres.Queryer
}

func NewUserRepository(conn postgres.Queryer) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	usersSQL, usersArgs, err := squirrel.
		Insert(usersTable).
		Columns("email", "name", "role", "is_active", "password_hash").
		Values(account.Email, account.Name, account.Role, account.Active, account.PasswordHash).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	created, err := scanUser(r.conn.QueryRowContext(ctx, usersSQL, usersArgs...))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, "erro ao inserir usuário")
	}

	return created, nil
}

// UpdateUser altera só os campos informados e devolve a conta atualizada
func (r *userRepository) UpdateUser(ctx context.Context, id int64, req domain.UpdateAccountRequest) (*domain.Account, error) {
	queryBuilder := squirrel.
		Update(usersTable).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if req.Name != nil {
		queryBuilder = queryBuilder.Set("name", *req.Name)
	}

	if req.Role != nil {
		queryBuilder = queryBuilder.Set("role", *req.Role)
	}

	if req.Active != nil {
		queryBuilder = queryBuilder.Set("is_active", *req.Active)
	}

	usersSQL, usersArgs, err := queryBuilder.
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	updated, err := scanUser(r.conn.QueryRowContext(ctx, usersSQL, usersArgs...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao atualizar usuário %d", id)
	}

	return updated, nil
}

// UpdatePassword devolve false quando a conta não existe
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (bool, error) {
	usersSQL, usersArgs, err := squirrel.
		Update(usersTable).
		Set("password_hash", passwordHash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, err
	}

	result, err := r.conn.ExecContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return false, errors.Wrapf(err, "erro ao atualizar senha do usuário %d", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getUser(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.getUser(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) getUser(ctx context.Context, where squirrel.Sqlizer) (*domain.Account, error) {
	usersSQL, usersArgs, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	account, err := scanUser(r.conn.QueryRowContext(ctx, usersSQL, usersArgs...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "erro ao buscar usuário")
	}

	return account, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.Account, error) {
	usersSQL, usersArgs, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, usersSQL, usersArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar usuários")
	}
	defer rows.Close()

	users := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, account)
	}

	return users, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.Account, error) {
	account := &domain.Account{}
	var role string

	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&role,
		&account.Active,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	account.Role = parsed

	return account, nil
}
