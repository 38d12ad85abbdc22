package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/internal/testutil"
	"github.com/lupa-autoricambi/gestionale/validation"
)

func TestCustomerPrivateNullsWorkshopName(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewCustomerService(gdb)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{Name: "Mario Rossi", Type: "PRIVATE", WorkshopName: "Officina Rossi", Phone: " "})
	require.NoError(t, err)
	assert.Equal(t, models.CustomerPrivate, c.Type)
	assert.Nil(t, c.WorkshopName)
	assert.Nil(t, c.Phone)

	w, err := svc.Update(ctx, c.ID, CustomerInput{Name: "Mario Rossi", Type: "WORKSHOP", WorkshopName: "Officina Rossi"})
	require.NoError(t, err)
	require.NotNil(t, w.WorkshopName)
	assert.Equal(t, "Officina Rossi", *w.WorkshopName)

	p, err := svc.Update(ctx, c.ID, CustomerInput{Name: "Mario Rossi", Type: "PRIVATE", WorkshopName: "Officina Rossi"})
	require.NoError(t, err)
	assert.Nil(t, p.WorkshopName)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.WorkshopName)
}

func TestCustomerInvalidTypeFallsBackToPrivate(t *testing.T) {
	gdb := testutil.NewDB(t)
	c, err := NewCustomerService(gdb).Create(context.Background(), CustomerInput{Name: "Anna", Type: "garage", WorkshopName: "X"})
	require.NoError(t, err)
	assert.Equal(t, models.CustomerPrivate, c.Type)
	assert.Nil(t, c.WorkshopName)
}

func TestCustomerRequiresName(t *testing.T) {
	gdb := testutil.NewDB(t)
	_, err := NewCustomerService(gdb).Create(context.Background(), CustomerInput{Name: "   ", Type: "PRIVATE"})
	e := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, "missing_required_fields", e.Code)
}

func TestCustomerMutationsAreNotAudited(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewCustomerService(gdb)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{Name: "Mario"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, c.ID, CustomerInput{Name: "Mario R."})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID))

	var entries int64
	gdb.Model(&models.AuditLogEntry{}).Count(&entries)
	assert.Zero(t, entries)
}

func TestCustomerDeleteGuard(t *testing.T) {
	gdb := testutil.NewDB(t)
	customers := NewCustomerService(gdb)
	accounts := NewAccountService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	c, err := customers.Create(ctx, CustomerInput{Name: "Mario Rossi"})
	require.NoError(t, err)
	for _, d := range []string{"Tagliando", "Freni"} {
		_, err := accounts.Create(ctx, user.ID, AccountInput{CustomerID: c.ID.String(), Description: d, Balance: validation.NewNumber("10")})
		require.NoError(t, err)
	}

	err = customers.Delete(ctx, c.ID)
	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Equal(t, []any{int64(2)}, e.Args)

	_, err = customers.Get(ctx, c.ID)
	require.NoError(t, err, "customer must survive a refused delete")

	// the foreign key refuses the delete even without the service check
	assert.Error(t, gdb.Delete(&models.Customer{}, "id = ?", c.ID).Error)
	list, err := accounts.ListByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCustomerDeleteWithoutAccounts(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewCustomerService(gdb)
	ctx := context.Background()

	c, err := svc.Create(ctx, CustomerInput{Name: "Luca"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID))

	_, err = svc.Get(ctx, c.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, c.ID)))
	_, err = svc.Update(ctx, uuid.New(), CustomerInput{Name: "x"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCustomerListSearchAndOrder(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewCustomerService(gdb)
	ctx := context.Background()

	for _, in := range []CustomerInput{
		{Name: "Zeno Bianchi", Phone: "333 1234567"},
		{Name: "andrea verdi", Type: "WORKSHOP", WorkshopName: "Officina Verdi"},
		{Name: "Mario Rossi", Phone: "347 7654321"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	// ordering follows the database collation: uppercase names sort before lowercase ones
	assert.Equal(t, []string{"Mario Rossi", "Zeno Bianchi", "andrea verdi"}, names(all))

	byPhone, err := svc.List(ctx, "765")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mario Rossi"}, names(byPhone))

	byWorkshop, err := svc.List(ctx, "OFFICINA")
	require.NoError(t, err)
	assert.Equal(t, []string{"andrea verdi"}, names(byWorkshop))

	byName, err := svc.List(ctx, "bianchi")
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeno Bianchi"}, names(byName))
}

func names(customers []models.Customer) []string {
	out := make([]string, len(customers))
	for i, c := range customers {
		out[i] = c.Name
	}
	return out
}
