package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/vfg2006/income-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/internal/config"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/pkg/credential"
	"github.com/vfg2006/income-report-api/pkg/log"
	"github.com/vfg2006/income-report-api/pkg/utils"
)

const bootstrapPasswordLength = 16

// As views v_income_365 e v_income_dms pertencem ao ERP e não são criadas aqui
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255),
		role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS master_branches (
		id SERIAL PRIMARY KEY,
		code VARCHAR(10) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS master_order_types (
		id SERIAL PRIMARY KEY,
		name_cn VARCHAR(100) NOT NULL,
		name_en VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS master_work_order_statuses (
		id SERIAL PRIMARY KEY,
		name_cn VARCHAR(100) NOT NULL,
		name_en VARCHAR(100) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS master_repair_types (
		id SERIAL PRIMARY KEY,
		name_cn VARCHAR(100) NOT NULL,
		name_en VARCHAR(100) NOT NULL
	)`,
}

// lookupSeed é uma tabela de apoio preenchida apenas quando está vazia
type lookupSeed struct {
	Table   string
	Columns []string
	Rows    [][]any
}

var lookupSeeds = []lookupSeed{
	{
		Table:   "master_branches",
		Columns: []string{"code", "name"},
		Rows: [][]any{
			{"gi", "บริษัท โกลด์ อินทิเกรท จำกัด"},
			{"gi01", "บริษัท โกลด์ อินทิเกรท กาญจนาภิเษก – บางแค จำกัด"},
			{"gi02", "บริษัท โกลด์ อินทิเกรท มีนบุรี จำกัด"},
			{"gi03", "บริษัท โกลด์ อินทิเกรท เลียบด่วนรามอินทรา จำกัด"},
			{"gi04", "บริษัท โกลด์ อินทิเกรท สีลม ซอย 9 จำกัด"},
			{"gi05", "บริษัท โกลด์ อินทิเกรท อุบลราชธานี จำกัด"},
			{"gi07", "บริษัท โกลด์ อินทิเกรท มหาชัย จำกัด"},
			{"gi08", "บริษัท โกลด์ อินทิเกรท ศาลายา จำกัด"},
			{"gi09", "บริษัท โกลด์ อินทิเกรท วิภาวดี จำกัด"},
			{"gi10", "บริษัท โกลด์ อินทิเกรท พิบูลสงคราม จำกัด"},
			{"gi11", "บริษัท โกลด์ อินทิเกรท อยุธยา จำกัด"},
		},
	},
	{
		Table:   "master_order_types",
		Columns: []string{"name_cn", "name_en"},
		Rows: [][]any{
			{"维修", "Repair"},
			{"索赔", "Claims"},
		},
	},
	{
		Table:   "master_work_order_statuses",
		Columns: []string{"name_cn", "name_en"},
		Rows: [][]any{
			{"交车", "Delivery"},
			{"新建", "New"},
			{"已结算", "Settled"},
			{"派工", "Dispatch"},
			{"已提交结算", "Settlement submitted"},
		},
	},
	{
		Table:   "master_repair_types",
		Columns: []string{"name_cn", "name_en"},
		Rows: [][]any{
			{"首次保养", "First maintenance"},
			{"钣金喷漆", "Sheet metal painting"},
			{"软件升级", "Software upgrade"},
			{"服务活动", "Service Activities"},
			{"服务月活动", "Service Month Activities"},
			{"售前维修", "Pre-sales repair"},
			{"内部维修", "Internal repair"},
			{"一般维修", "General maintenance"},
			{"PDI", "PDI"},
		},
	},
}

// insertSQL monta o INSERT de todas as linhas de uma tabela de apoio
func (s lookupSeed) insertSQL() (string, []any, error) {
	builder := squirrel.Insert(s.Table).Columns(s.Columns...).PlaceholderFormat(squirrel.Dollar)
	for _, row := range s.Rows {
		builder = builder.Values(row...)
	}
	return builder.ToSql()
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}
	log.Configure(cfg.App.Env, cfg.App.LogLevel)
	log.L.Info("Iniciando script de migração...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao configurar o PostgreSQL")
	}
	defer conn.Close()

	if err := conn.Ping(ctx); err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	startTime := time.Now()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := createSchema(ctx, tx); err != nil {
			return err
		}
		return seedLookups(ctx, tx)
	})
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao criar as tabelas, transação revertida")
	}

	if cfg.Bootstrap.AdminEmail != "" {
		hasher := credential.NewBcryptHasher(cfg.Auth.BcryptCost)
		if err := bootstrapAdmin(ctx, repository.NewUserRepository(conn), hasher, cfg.Bootstrap.AdminEmail); err != nil {
			log.L.WithError(err).Fatal("Erro ao criar o administrador inicial")
		}
	}

	log.L.Infof("Migração concluída em %v", time.Since(startTime))
}

func createSchema(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "erro ao executar %q", firstLine(stmt))
		}
	}

	log.L.Infof("%d tabelas verificadas", len(schema))
	return nil
}

func seedLookups(ctx context.Context, tx *sql.Tx) error {
	for _, seed := range lookupSeeds {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT count(*) FROM "+seed.Table).Scan(&count); err != nil {
			return errors.Wrapf(err, "erro ao contar %s", seed.Table)
		}

		if count > 0 {
			log.L.Infof("Tabela %s já possui %d registros, mantendo", seed.Table, count)
			continue
		}

		query, args, err := seed.insertSQL()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "erro ao popular %s", seed.Table)
		}

		log.L.Infof("Tabela %s populada com %d registros", seed.Table, len(seed.Rows))
	}

	return nil
}

// bootstrapAdmin cria o primeiro administrador com senha aleatória, exibida uma única vez
func bootstrapAdmin(ctx context.Context, users repository.UserRepository, hasher credential.Hasher, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		log.L.WithField("user_id", existing.ID).Info("Administrador inicial já existe, nada a fazer")
		return nil
	}

	password, err := utils.GenerateID(bootstrapPasswordLength)
	if err != nil {
		return errors.Wrap(err, "erro ao gerar senha")
	}

	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	name := "Administrador"
	created, err := users.CreateUser(ctx, &domain.Account{
		Email:        email,
		Name:         &name,
		Role:         domain.RoleAdmin,
		Active:       true,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return err
	}

	// A senha vai só para o terminal, nunca para o log
	fmt.Printf("Administrador criado: %s\nSenha: %s\n", created.Email, password)
	return nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return line
}
