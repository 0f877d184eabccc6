package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo opens a pool for dsn and verifies it with a ping.
func NewPostgresRepo(ctx context.Context, dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresRepo{DB: db}, nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *PostgresRepo) Close(context.Context) error {
	return r.DB.Close()
}

func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			age INT NOT NULL,
			gender TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			aadhar_id TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL DEFAULT '',
			designation TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			salary NUMERIC(12,2) NOT NULL,
			joining_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			employee_name TEXT NOT NULL DEFAULT '',
			att_date DATE NOT NULL,
			status TEXT NOT NULL,
			check_in TEXT NOT NULL DEFAULT '',
			check_out TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (employee_id, att_date)
		);`,
		`CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (att_date DESC);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			employee_name TEXT NOT NULL DEFAULT '',
			amount NUMERIC(12,2) NOT NULL,
			pay_date DATE NOT NULL,
			type TEXT NOT NULL,
			method TEXT NOT NULL,
			period TEXT NOT NULL DEFAULT '',
			reference TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS payments_date_idx ON payments (pay_date DESC);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS payments_salary_period_idx
			ON payments (employee_id, period) WHERE type = 'salary';`,
	}
	for _, q := range queries {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return apperror.DB{Err: err}
		}
	}
	return nil
}

// ---- admins ----

func (r *PostgresRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admins
		WHERE username = $1
		LIMIT 1`, username)

	var a model.Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, notFoundOr(err, "admin", username)
	}
	return &a, nil
}

func (r *PostgresRepo) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash) VALUES ($1,$2)
		ON CONFLICT (username) DO UPDATE SET password_hash = $2
	`, username, passwordHash)
	if err != nil {
		return apperror.DB{Err: err}
	}
	return nil
}

// ---- employees ----

const employeeColumns = `id, name, age, gender, phone, email, aadhar_id, address, designation,
	department, salary, to_char(joining_date, 'YYYY-MM-DD'), status, created_at, updated_at`

func scanEmployee(s interface{ Scan(...any) error }) (*model.Employee, error) {
	var e model.Employee
	err := s.Scan(&e.ID, &e.Name, &e.Age, &e.Gender, &e.Phone, &e.Email, &e.AadharID, &e.Address,
		&e.Designation, &e.Department, &e.Salary, &e.JoiningDate, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepo) CreateEmployee(ctx context.Context, e *model.Employee) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO employees (
			id, name, age, gender, phone, email, aadhar_id, address,
			designation, department, salary, joining_date, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		e.ID, e.Name, e.Age, e.Gender, e.Phone, e.Email, e.AadharID, e.Address,
		e.Designation, e.Department, e.Salary, e.JoiningDate, e.Status, e.CreatedAt, e.UpdatedAt,
	)
	return writeErr(err, "employee", e.ID)
}

func (r *PostgresRepo) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

	e, err := scanEmployee(row)
	if err != nil {
		return nil, notFoundOr(err, "employee", id)
	}
	return e, nil
}

func (r *PostgresRepo) FindEmployeeByAadhar(ctx context.Context, aadhar string) (*model.Employee, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE aadhar_id = $1`, aadhar)

	e, err := scanEmployee(row)
	if err != nil {
		return nil, notFoundOr(err, "employee", aadhar)
	}
	return e, nil
}

func (r *PostgresRepo) ListEmployees(ctx context.Context, f model.EmployeeFilter) ([]model.Employee, error) {
	w := &where{}
	w.eq("status", f.Status)
	w.eq("department", f.Department)
	if f.Search != "" {
		w.add("name ILIKE '%%' || $%d || '%%'", f.Search)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees`+w.String()+` ORDER BY name ASC, id ASC`, w.args...)
	if err != nil {
		return nil, apperror.DB{Err: err}
	}
	defer rows.Close()

	out := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, apperror.DB{Err: err}
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.DB{Err: err}
	}
	return out, nil
}

func (r *PostgresRepo) UpdateEmployee(ctx context.Context, e *model.Employee) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE employees SET
			name = $2, age = $3, gender = $4, phone = $5, email = $6, aadhar_id = $7, address = $8,
			designation = $9, department = $10, salary = $11, joining_date = $12, status = $13, updated_at = $14
		WHERE id = $1`,
		e.ID, e.Name, e.Age, e.Gender, e.Phone, e.Email, e.AadharID, e.Address,
		e.Designation, e.Department, e.Salary, e.JoiningDate, e.Status, e.UpdatedAt,
	)
	return affected(res, writeErr(err, "employee", e.ID), "employee", e.ID)
}

func (r *PostgresRepo) DeleteEmployee(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return affected(res, dbErr(err), "employee", id)
}

// ---- attendance ----

const attendanceColumns = `id, employee_id, employee_name, to_char(att_date, 'YYYY-MM-DD'), status,
	check_in, check_out, notes, created_at, updated_at`

func scanAttendance(s interface{ Scan(...any) error }) (*model.Attendance, error) {
	var a model.Attendance
	err := s.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Date, &a.Status,
		&a.CheckIn, &a.CheckOut, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepo) CreateAttendance(ctx context.Context, a *model.Attendance) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO attendance (
			id, employee_id, employee_name, att_date, status, check_in, check_out, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.EmployeeID, a.EmployeeName, a.Date, a.Status, a.CheckIn, a.CheckOut, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	return writeErr(err, "attendance", a.ID)
}

func (r *PostgresRepo) GetAttendance(ctx context.Context, id string) (*model.Attendance, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id)

	a, err := scanAttendance(row)
	if err != nil {
		return nil, notFoundOr(err, "attendance", id)
	}
	return a, nil
}

func (r *PostgresRepo) ListAttendance(ctx context.Context, f model.AttendanceFilter) ([]model.Attendance, error) {
	w := &where{}
	w.eq("employee_id", f.EmployeeID)
	w.eq("status", f.Status)
	if f.From != "" {
		w.add("att_date >= $%d", f.From)
	}
	if f.To != "" {
		w.add("att_date <= $%d", f.To)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+attendanceColumns+` FROM attendance`+w.String()+` ORDER BY att_date DESC, employee_name ASC`, w.args...)
	if err != nil {
		return nil, apperror.DB{Err: err}
	}
	defer rows.Close()

	out := []model.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, apperror.DB{Err: err}
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.DB{Err: err}
	}
	return out, nil
}

func (r *PostgresRepo) UpdateAttendance(ctx context.Context, a *model.Attendance) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE attendance SET status = $2, check_in = $3, check_out = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		a.ID, a.Status, a.CheckIn, a.CheckOut, a.Notes, a.UpdatedAt,
	)
	return affected(res, dbErr(err), "attendance", a.ID)
}

func (r *PostgresRepo) DeleteAttendance(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	return affected(res, dbErr(err), "attendance", id)
}

func (r *PostgresRepo) DeleteAttendanceByEmployee(ctx context.Context, employeeID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attendance WHERE employee_id = $1`, employeeID)
	if err != nil {
		return 0, apperror.DB{Err: err}
	}
	return res.RowsAffected()
}

// ---- payments ----

const paymentColumns = `id, employee_id, employee_name, amount, to_char(pay_date, 'YYYY-MM-DD'), type, method,
	period, reference, notes, created_at, updated_at`

func scanPayment(s interface{ Scan(...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := s.Scan(&p.ID, &p.EmployeeID, &p.EmployeeName, &p.Amount, &p.Date, &p.Type, &p.Method,
		&p.Period, &p.Reference, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (
			id, employee_id, employee_name, amount, pay_date, type, method, period, reference, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.EmployeeID, p.EmployeeName, p.Amount, p.Date, p.Type, p.Method, p.Period, p.Reference, p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	return writeErr(err, "payment", p.ID)
}

func (r *PostgresRepo) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	p, err := scanPayment(row)
	if err != nil {
		return nil, notFoundOr(err, "payment", id)
	}
	return p, nil
}

func (r *PostgresRepo) FindSalaryPayment(ctx context.Context, employeeID, period string) (*model.Payment, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE employee_id = $1 AND period = $2 AND type = 'salary' LIMIT 1`, employeeID, period)

	p, err := scanPayment(row)
	if err != nil {
		return nil, notFoundOr(err, "salary payment", employeeID+"/"+period)
	}
	return p, nil
}

func (r *PostgresRepo) ListPayments(ctx context.Context, f model.PaymentFilter) ([]model.Payment, error) {
	w := &where{}
	w.eq("employee_id", f.EmployeeID)
	w.eq("type", f.Type)
	w.eq("method", f.Method)
	w.eq("period", f.Period)
	if f.From != "" {
		w.add("pay_date >= $%d", f.From)
	}
	if f.To != "" {
		w.add("pay_date <= $%d", f.To)
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments`+w.String()+` ORDER BY pay_date DESC, created_at DESC`, w.args...)
	if err != nil {
		return nil, apperror.DB{Err: err}
	}
	defer rows.Close()

	out := []model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, apperror.DB{Err: err}
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.DB{Err: err}
	}
	return out, nil
}

func (r *PostgresRepo) UpdatePayment(ctx context.Context, p *model.Payment) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE payments SET
			amount = $2, pay_date = $3, type = $4, method = $5, period = $6, reference = $7, notes = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Amount, p.Date, p.Type, p.Method, p.Period, p.Reference, p.Notes, p.UpdatedAt,
	)
	return affected(res, writeErr(err, "salary payment", p.EmployeeID+"/"+p.Period), "payment", p.ID)
}

func (r *PostgresRepo) DeletePayment(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return affected(res, dbErr(err), "payment", id)
}

func (r *PostgresRepo) DeletePaymentsByEmployee(ctx context.Context, employeeID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM payments WHERE employee_id = $1`, employeeID)
	if err != nil {
		return 0, apperror.DB{Err: err}
	}
	return res.RowsAffected()
}

// ---- helpers ----

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

// add appends cond, whose single %d is replaced by the next placeholder index.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) eq(column, value string) {
	if value != "" {
		w.add(column+" = $%d", value)
	}
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.EntityNotFound{Entity: entity, ID: id}
	}
	return apperror.DB{Err: err}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func writeErr(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperror.EntityAlreadyExists{Entity: entity, ID: id}
	}
	return apperror.DB{Err: err}
}

func dbErr(err error) error {
	if err == nil {
		return nil
	}
	return apperror.DB{Err: err}
}

// affected turns a zero-row update or delete into EntityNotFound.
func affected(res sql.Result, err error, entity, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.DB{Err: err}
	}
	if n == 0 {
		return apperror.EntityNotFound{Entity: entity, ID: id}
	}
	return nil
}
