package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

func salary(employeeID, period, amount string) *model.Payment {
	return &model.Payment{
		EmployeeID: employeeID,
		Amount:     decimal.RequireFromString(amount),
		Date:       "2026-10-01",
		Type:       "salary",
		Method:     "bank_transfer",
		Period:     period,
		Reference:  "NEFT-" + period,
	}
}

func TestPaymentService_Record(t *testing.T) {
	store, rec := newMemStore(), &recorder{}
	svc := newPaymentService(store, rec)
	ctx := context.Background()

	seedEmployee(t, store, "emp01", "Asha Verma")

	p, err := svc.Record(ctx, salary("emp01", "2026-09", "35000"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Asha Verma", p.EmployeeName)
	assert.Equal(t, []string{"payments:created"}, rec.actions())

	tests := []struct {
		desc  string
		in    *model.Payment
		err   error
		field string
	}{
		{"same period again", salary("emp01", "2026-09", "1000"),
			apperror.EntityAlreadyExists{Entity: "salary payment", ID: "emp01/2026-09"}, ""},
		{"unknown employee", salary("ghost", "2026-09", "1000"), nil, "employee_id"},
		{"future period", salary("emp01", "2026-11", "1000"), nil, "period"},
		{"three decimals", salary("emp01", "2026-08", "100.125"), nil, "amount"},
		{"cheque without reference", &model.Payment{EmployeeID: "emp01", Amount: decimal.NewFromInt(500),
			Date: "2026-10-01", Type: "bonus", Method: "cheque"}, nil, "reference"},
	}

	for i, tc := range tests {
		_, err := svc.Record(ctx, tc.in)

		if tc.err != nil {
			assert.Equal(t, tc.err, err, "TEST[%d], failed.\n%s", i, tc.desc)
			continue
		}

		var verrs model.ValidationErrors
		require.True(t, errors.As(err, &verrs), "TEST[%d], failed.\n%s", i, tc.desc)
		assert.Contains(t, verrs, tc.field, "TEST[%d], failed.\n%s", i, tc.desc)
	}

	_, err = svc.Record(ctx, salary("emp01", "2026-08", "35000"))
	assert.NoError(t, err)

	_, err = svc.Record(ctx, &model.Payment{EmployeeID: "emp01", Amount: decimal.NewFromInt(2000),
		Date: "2026-10-02", Type: "advance", Method: "upi"})
	assert.NoError(t, err)

	assert.Len(t, store.payments, 3)
}

func TestPaymentService_Update(t *testing.T) {
	store := newMemStore()
	svc := newPaymentService(store, &recorder{})
	ctx := context.Background()

	seedEmployee(t, store, "emp01", "Asha Verma")

	sep, err := svc.Record(ctx, salary("emp01", "2026-09", "35000"))
	require.NoError(t, err)
	aug, err := svc.Record(ctx, salary("emp01", "2026-08", "35000"))
	require.NoError(t, err)

	edit := salary("", "2026-09", "36000")
	updated, err := svc.Update(ctx, sep.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "emp01", updated.EmployeeID)
	assert.True(t, decimal.NewFromInt(36000).Equal(store.payments[sep.ID].Amount))

	_, err = svc.Update(ctx, aug.ID, salary("emp01", "2026-09", "35000"))
	assert.Equal(t, apperror.EntityAlreadyExists{Entity: "salary payment", ID: "emp01/2026-09"}, err)

	_, err = svc.Update(ctx, aug.ID, salary("emp02", "2026-08", "35000"))
	assert.Equal(t, model.ValidationErrors{"employee_id": "cannot be changed"}, err)

	_, err = svc.Update(ctx, "missing", salary("emp01", "2026-07", "35000"))
	assert.Equal(t, apperror.EntityNotFound{Entity: "payment", ID: "missing"}, err)
}

func TestPaymentService_Summary(t *testing.T) {
	store := newMemStore()
	svc := newPaymentService(store, &recorder{})
	ctx := context.Background()

	seedEmployee(t, store, "emp01", "Asha Verma")
	seedEmployee(t, store, "emp02", "Ravi Kumar")

	for _, p := range []*model.Payment{
		salary("emp01", "2026-09", "35000"),
		salary("emp02", "2026-09", "28000.50"),
		{EmployeeID: "emp01", Amount: decimal.RequireFromString("1500.25"), Date: "2026-10-05", Type: "reimbursement", Method: "upi"},
		{EmployeeID: "emp02", Amount: decimal.NewFromInt(5000), Date: "2026-09-20", Type: "advance", Method: "cash"},
	} {
		_, err := svc.Record(ctx, p)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, model.PaymentFilter{From: "2026-10-01", To: "2026-10-31"})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "64500.75", summary.Total.StringFixed(2))
	assert.Equal(t, "63000.50", summary.ByType["salary"].StringFixed(2))
	assert.Equal(t, "1500.25", summary.ByMethod["upi"].StringFixed(2))

	_, err = svc.Summary(ctx, model.PaymentFilter{Method: "crypto"})
	assert.Equal(t, apperror.InvalidParam{Param: []string{"method"}}, err)
}

func TestPaymentService_Delete(t *testing.T) {
	store, rec := newMemStore(), &recorder{}
	svc := newPaymentService(store, rec)

	store.payments["p1"] = model.Payment{ID: "p1"}

	require.NoError(t, svc.Delete(context.Background(), "p1"))
	assert.IsType(t, apperror.EntityNotFound{}, svc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"payments:deleted"}, rec.actions())
}
