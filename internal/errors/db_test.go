package errors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	err := MapDBError(nil)
	if err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{
			name:     "deadline exceeded",
			err:      context.DeadlineExceeded,
			wantCode: ErrCodeTimeout,
		},
		{
			name:     "canceled",
			err:      context.Canceled,
			wantCode: ErrCodeCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if GetCode(err) != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	if !IsNotFound(err) {
		t.Errorf("MapDBError(pgx.ErrNoRows) should be NotFound, got %v", GetCode(err))
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name: "unique violation with column name",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "employees_email_key",
				ColumnName:     "email",
			},
			wantField: "email",
		},
		{
			name: "unique violation with Detail message",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "employees_email_key",
				Detail:         `Key (email)=(ann@example.com) already exists.`,
			},
			wantField: "email", // extracted from Detail
		},
		{
			name: "unique violation with multi-column Detail",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "menu_permissions_employee_id_menu_key_key",
				Detail:         `Key (employee_id, menu_key)=(e1, contract-list) already exists.`,
			},
			wantField: "employee_id, menu_key", // extracted from Detail
		},
		{
			name: "unique violation without column name",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "employees_email_key",
			},
			wantField: "email", // inferred from constraint name
		},
		{
			name: "unique violation with ambiguous constraint",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "clients_login_handle_key",
			},
			wantField: "", // two-word column, cannot infer safely
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsConflict(err) {
				t.Errorf("MapDBError() should be Conflict, got %v", GetCode(err))
			}
			if field := GetField(err); field != tt.wantField {
				t.Errorf("MapDBError() field = %v, want %v", field, tt.wantField)
			}
		})
	}
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name         string
		pgErr        *pgconn.PgError
		wantContains string
	}{
		{
			name: "foreign key violation - parent deletion (Detail)",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "contracts_client_id_fkey",
				Detail:         `Key (id)=(c1) is still referenced from table "contracts".`,
			},
			wantContains: "in use by Contract",
		},
		{
			name: "foreign key violation - missing parent (Detail)",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "menu_permissions_employee_id_fkey",
				Detail:         `Key (employee_id)=(e1) is not present in table "employees".`,
			},
			wantContains: "does not exist",
		},
		{
			name: "foreign key violation with table name only",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "contracts_client_id_fkey",
				TableName:      "contracts",
			},
			wantContains: "Contract",
		},
		{
			name: "foreign key violation with no metadata",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.ForeignKeyViolation,
				ConstraintName: "contracts_client_id_fkey",
			},
			wantContains: "in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsForeignKey(err) {
				t.Errorf("MapDBError() should be ForeignKey, got %v", GetCode(err))
			}
			var appErr *AppError
			if errors.As(err, &appErr) {
				msgLower := strings.ToLower(appErr.Message)
				wantLower := strings.ToLower(tt.wantContains)
				if !strings.Contains(msgLower, wantLower) {
					t.Errorf("MapDBError() message = %q, want to contain %q", appErr.Message, tt.wantContains)
				}
			}
		})
	}
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name: "not null violation with column name",
			pgErr: &pgconn.PgError{
				Code:       pgerrcode.NotNullViolation,
				ColumnName: "login_handle",
			},
			wantField: "login_handle",
		},
		{
			name: "not null violation without column name",
			pgErr: &pgconn.PgError{
				Code: pgerrcode.NotNullViolation,
			},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsValidation(err) {
				t.Errorf("MapDBError() should be Validation, got %v", GetCode(err))
			}
			if field := GetField(err); field != tt.wantField {
				t.Errorf("MapDBError() field = %v, want %v", field, tt.wantField)
			}
		})
	}
}

func TestMapDBError_CheckViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name: "check violation with column name",
			pgErr: &pgconn.PgError{
				Code:       pgerrcode.CheckViolation,
				ColumnName: "amount_cents",
			},
			wantField: "amount_cents",
		},
		{
			name: "check violation without column name",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.CheckViolation,
				ConstraintName: "clients_status_check",
			},
			wantField: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsValidation(err) {
				t.Errorf("MapDBError() should be Validation, got %v", GetCode(err))
			}
			if field := GetField(err); field != tt.wantField {
				t.Errorf("MapDBError() field = %v, want %v", field, tt.wantField)
			}
		})
	}
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "99999", // unknown error code
		Message: "unknown error",
	}
	err := MapDBError(pgErr)
	if !IsInternal(err) {
		t.Errorf("MapDBError() should be Internal for unknown pg error, got %v", GetCode(err))
	}
}

func TestMapDBError_StandardError(t *testing.T) {
	stdErr := errors.New("standard error")
	err := MapDBError(stdErr)
	if !errors.Is(err, stdErr) {
		t.Errorf("MapDBError() should return original error for non-db errors, got %v", err)
	}
}

func TestInferFieldFromConstraint(t *testing.T) {
	tests := []struct {
		name           string
		constraintName string
		want           string
	}{
		{
			name:           "simple unique constraint",
			constraintName: "employees_email_key",
			want:           "email",
		},
		{
			name:           "roles name constraint",
			constraintName: "roles_name_key",
			want:           "name",
		},
		{
			name:           "two-word column constraint",
			constraintName: "clients_login_handle_key",
			want:           "", // ambiguous
		},
		{
			name:           "expression index",
			constraintName: "employees_lower_key",
			want:           "", // function name, not field
		},
		{
			name:           "empty constraint name",
			constraintName: "",
			want:           "",
		},
		{
			name:           "too few parts",
			constraintName: "employees_key",
			want:           "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inferFieldFromConstraint(tt.constraintName); got != tt.want {
				t.Errorf("inferFieldFromConstraint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFunctionName(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want bool
	}{
		{name: "lower", s: "lower", want: true},
		{name: "upper", s: "upper", want: true},
		{name: "LOWER (uppercase)", s: "LOWER", want: true},
		{name: "not a function", s: "email", want: false},
		{name: "empty", s: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFunctionName(tt.s); got != tt.want {
				t.Errorf("isFunctionName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapTableToDomain(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		want      string
	}{
		{name: "roles", tableName: "roles", want: "Role"},
		{name: "employees", tableName: "employees", want: "Employee"},
		{name: "clients", tableName: "clients", want: "Client"},
		{name: "menu_permissions", tableName: "menu_permissions", want: "Menu Permission"},
		{name: "contracts", tableName: "contracts", want: "Contract"},
		{name: "uppercase", tableName: "CLIENTS", want: "Client"},
		{name: "with spaces", tableName: "  contracts  ", want: "Contract"},
		{name: "unknown table", tableName: "audit_entries", want: "Audit Entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapTableToDomain(tt.tableName); got != tt.want {
				t.Errorf("mapTableToDomain() = %v, want %v", got, tt.want)
			}
		})
	}
}
