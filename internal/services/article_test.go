package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/internal/testutil"
	"github.com/lupa-autoricambi/gestionale/validation"
)

func filterInput(code string) ArticleInput {
	return ArticleInput{Code: code, PartName: "Filtro", MachineName: "FIAT Panda", Quantity: validation.NewNumber("5")}
}

func TestArticleCreateNormalizes(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "LupoAndrea")

	a, err := svc.Create(context.Background(), user.ID, ArticleInput{
		Code:        "  X1 ",
		PartName:    "Filtro olio",
		MachineName: "FIAT Panda",
		Quantity:    validation.NewNumber("abc"),
		Shelf:       "c",
		Tier:        "alto",
		SlotCode:    "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, "X1", a.Code)
	assert.Equal(t, 0, a.Quantity)
	require.NotNil(t, a.Shelf)
	assert.Equal(t, models.Shelf("C"), *a.Shelf)
	require.NotNil(t, a.Tier)
	assert.Equal(t, models.TierHigh, *a.Tier)
	assert.Nil(t, a.SlotCode)

	b, err := svc.Create(context.Background(), user.ID, ArticleInput{Code: "X2", PartName: "p", MachineName: "m", Shelf: "Z", Tier: "top"})
	require.NoError(t, err)
	assert.Nil(t, b.Shelf, "invalid shelf is dropped")
	assert.Nil(t, b.Tier, "invalid tier is dropped")

	var entries []models.AuditLogEntry
	require.NoError(t, gdb.Order("created_at").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, models.OpArticleCreated, entries[0].Operation)
	assert.Equal(t, "Created article: X1 (Filtro olio)", entries[0].Description)
	assert.Equal(t, user.ID, entries[0].UserID)
	require.NotNil(t, entries[0].ArticleID)
	assert.Equal(t, a.ID, *entries[0].ArticleID)
}

func TestArticleCreateRequiresFields(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")

	_, err := svc.Create(context.Background(), user.ID, ArticleInput{Code: " ", PartName: "p"})
	require.Error(t, err)
	e := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, validation.Violations{"code": "required", "machine_name": "required"}, e.Details)
}

func TestArticleCreateRequiresActor(t *testing.T) {
	gdb := testutil.NewDB(t)
	_, err := NewArticleService(gdb).Create(context.Background(), uuid.Nil, filterInput("X1"))
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	var count int64
	gdb.Model(&models.Article{}).Count(&count)
	assert.Zero(t, count)
}

func TestArticleDuplicateCodeConflict(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, filterInput("X1"))
	require.NoError(t, err)

	dup := filterInput(" X1")
	dup.PartName = "Altro"
	dup.Quantity = validation.NewNumber("9")
	_, err = svc.Create(ctx, user.ID, dup)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	var stored []models.Article
	require.NoError(t, gdb.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.Equal(t, "Filtro", stored[0].PartName)
	assert.Equal(t, 5, stored[0].Quantity)

	var entries int64
	gdb.Model(&models.AuditLogEntry{}).Count(&entries)
	assert.Equal(t, int64(1), entries, "failed create must not be logged")
}

func TestArticleUpdateSameCodeDoesNotConflict(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	a, err := svc.Create(ctx, user.ID, filterInput("X1"))
	require.NoError(t, err)

	in := filterInput(" X1 ")
	in.Quantity = validation.NewNumber("12")
	updated, err := svc.Update(ctx, user.ID, a.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "X1", updated.Code)
	assert.Equal(t, 12, updated.Quantity)

	var last models.AuditLogEntry
	require.NoError(t, gdb.Where("operation = ?", models.OpArticleUpdated).First(&last).Error)
	assert.Equal(t, "Updated article: X1 (quantity: 12)", last.Description)
}

func TestArticleUpdateToTakenCodeConflicts(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, filterInput("X1"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, user.ID, filterInput("X2"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, user.ID, b.ID, filterInput("X1"))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "X2", got.Code)
}

// skipCodeCheck makes the code pre-check count no rows, as when a competing
// insert commits between the check and the write.
func skipCodeCheck(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	err := gdb.Callback().Query().Before("gorm:query").Register("test:skip_code_check", func(tx *gorm.DB) {
		if _, counting := tx.Statement.Dest.(*int64); counting && tx.Statement.Table == "articles" {
			tx.Statement.AddClause(clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "1 = 0"}}})
		}
	})
	require.NoError(t, err)
}

func TestArticleCreateUniqueIndexConflict(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, filterInput("X1"))
	require.NoError(t, err)
	skipCodeCheck(t, gdb)

	dup := filterInput("X1")
	dup.PartName = "Altro"
	_, err = svc.Create(ctx, user.ID, dup)
	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Equal(t, "article_code_exists", e.Code)

	var stored []models.Article
	require.NoError(t, gdb.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, first.ID, stored[0].ID)
	assert.Equal(t, "Filtro", stored[0].PartName)

	var entries []models.AuditLogEntry
	require.NoError(t, gdb.Find(&entries).Error)
	assert.Len(t, entries, 1)
}

func TestArticleUpdateUniqueIndexConflict(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, filterInput("X1"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, user.ID, filterInput("X2"))
	require.NoError(t, err)
	skipCodeCheck(t, gdb)

	_, err = svc.Update(ctx, user.ID, b.ID, filterInput("X1"))
	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Equal(t, "article_code_exists", e.Code)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "X2", got.Code)
}

func TestArticleUpdateAndDeleteNotFound(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	_, err := svc.Update(ctx, user.ID, uuid.New(), filterInput("X1"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	err = svc.Delete(ctx, user.ID, uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestArticleDeleteKeepsAuditTrail(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	a, err := svc.Create(ctx, user.ID, filterInput("X1"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, user.ID, a.ID))

	_, err = svc.Get(ctx, a.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var entries []models.AuditLogEntry
	require.NoError(t, gdb.Order("created_at").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, models.OpArticleCreated, entries[0].Operation)
	assert.Nil(t, entries[0].ArticleID, "earlier entries lose the reference to the deleted row")
	assert.Equal(t, models.OpArticleDeleted, entries[1].Operation)
	assert.Equal(t, "Deleted article: X1 (Filtro)", entries[1].Description)
	assert.Nil(t, entries[1].ArticleID)
}

func TestArticleListSearchAndOrder(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewArticleService(gdb)
	user := testutil.NewUser(t, gdb, "u")
	ctx := context.Background()

	for _, in := range []ArticleInput{
		{Code: "A-100", PartName: "Filtro aria", MachineName: "FIAT Panda"},
		{Code: "B-200", PartName: "Pastiglie", MachineName: "Lancia Ypsilon"},
		{Code: "C_300", PartName: "Candela", MachineName: "Fiat Punto"},
	} {
		_, err := svc.Create(ctx, user.ID, in)
		require.NoError(t, err)
	}
	// make updated_at deterministic: A newest, then C, then B
	base := time.Now().UTC()
	gdb.Model(&models.Article{}).Where("code = ?", "B-200").Update("updated_at", base.Add(-2*time.Hour))
	gdb.Model(&models.Article{}).Where("code = ?", "C_300").Update("updated_at", base.Add(-time.Hour))
	gdb.Model(&models.Article{}).Where("code = ?", "A-100").Update("updated_at", base)

	all, err := svc.List(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-100", "C_300", "B-200"}, codes(all))

	fiat, err := svc.List(ctx, "fiat")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-100", "C_300"}, codes(fiat))

	byPart, err := svc.List(ctx, "PASTIGLIE")
	require.NoError(t, err)
	assert.Equal(t, []string{"B-200"}, codes(byPart))

	// LIKE wildcards are matched literally
	underscore, err := svc.List(ctx, "_")
	require.NoError(t, err)
	assert.Equal(t, []string{"C_300"}, codes(underscore))
}

func codes(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Code
	}
	return out
}
