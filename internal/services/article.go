package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lupa-autoricambi/gestionale/internal/apperr"
	"github.com/lupa-autoricambi/gestionale/internal/db"
	"github.com/lupa-autoricambi/gestionale/internal/models"
	"github.com/lupa-autoricambi/gestionale/validation"
)

// ArticleInput is the payload for creating or replacing an article.
type ArticleInput struct {
	Code        string            `json:"code" validate:"notblank"`
	PartName    string            `json:"part_name" validate:"notblank"`
	MachineName string            `json:"machine_name" validate:"notblank"`
	Quantity    validation.Number `json:"quantity"`
	Shelf       string            `json:"shelf"`
	Tier        string            `json:"tier"`
	SlotCode    string            `json:"slot_code"`
}

// apply copies the normalized input onto a.
func (in ArticleInput) apply(a *models.Article) {
	a.Code = strings.TrimSpace(in.Code)
	a.PartName = strings.TrimSpace(in.PartName)
	a.MachineName = strings.TrimSpace(in.MachineName)
	a.Quantity = in.Quantity.Int()
	a.Shelf = models.ParseShelf(in.Shelf)
	a.Tier = models.ParseTier(in.Tier)
	a.SlotCode = optional(in.SlotCode)
}

type ArticleService struct {
	db *gorm.DB
}

func NewArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{db: db}
}

var articleLog = struct {
	created, updated, deleted LogSpec[*models.Article]
}{
	created: LogSpec[*models.Article]{
		Operation: models.OpArticleCreated,
		Describe: func(a *models.Article) string {
			return fmt.Sprintf("Created article: %s (%s)", a.Code, a.PartName)
		},
		Article: func(a *models.Article) *uuid.UUID { return &a.ID },
	},
	updated: LogSpec[*models.Article]{
		Operation: models.OpArticleUpdated,
		Describe: func(a *models.Article) string {
			return fmt.Sprintf("Updated article: %s (quantity: %d)", a.Code, a.Quantity)
		},
		Article: func(a *models.Article) *uuid.UUID { return &a.ID },
	},
	// the article row is gone, so the entry keeps no reference to it
	deleted: LogSpec[*models.Article]{
		Operation: models.OpArticleDeleted,
		Describe: func(a *models.Article) string {
			return fmt.Sprintf("Deleted article: %s (%s)", a.Code, a.PartName)
		},
	},
}

// List returns articles most recently updated first, optionally filtered by a
// case-insensitive substring of code, part name or machine name.
func (s *ArticleService) List(ctx context.Context, search string) ([]models.Article, error) {
	var articles []models.Article
	q := containsAny(s.db.WithContext(ctx), search, "code", "part_name", "machine_name")
	if err := q.Order("updated_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// Get returns the article with id.
func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return findArticle(s.db.WithContext(ctx), id)
}

// Create inserts a new article. A code already in use is a conflict.
func (s *ArticleService) Create(ctx context.Context, actor uuid.UUID, in ArticleInput) (*models.Article, error) {
	if v := validation.Struct(in); !v.Empty() {
		return nil, apperr.Validation("missing_required_fields", v)
	}
	return MutateAndLog(ctx, s.db, actor, articleLog.created, func(tx *gorm.DB) (*models.Article, error) {
		var a models.Article
		in.apply(&a)
		if err := ensureCodeFree(tx, a.Code, uuid.Nil); err != nil {
			return nil, err
		}
		if err := tx.Create(&a).Error; err != nil {
			if db.IsDuplicateKey(err) {
				return nil, apperr.Conflict("article_code_exists", a.Code)
			}
			return nil, fmt.Errorf("create article: %w", err)
		}
		return &a, nil
	})
}

// Update replaces the fields of article id. The code uniqueness check only runs
// when the code actually changes.
func (s *ArticleService) Update(ctx context.Context, actor, id uuid.UUID, in ArticleInput) (*models.Article, error) {
	if v := validation.Struct(in); !v.Empty() {
		return nil, apperr.Validation("missing_required_fields", v)
	}
	return MutateAndLog(ctx, s.db, actor, articleLog.updated, func(tx *gorm.DB) (*models.Article, error) {
		a, err := findArticle(tx, id)
		if err != nil {
			return nil, err
		}
		if code := strings.TrimSpace(in.Code); code != a.Code {
			if err := ensureCodeFree(tx, code, a.ID); err != nil {
				return nil, err
			}
		}
		in.apply(a)
		if err := tx.Save(a).Error; err != nil {
			if db.IsDuplicateKey(err) {
				return nil, apperr.Conflict("article_code_exists", a.Code)
			}
			return nil, fmt.Errorf("update article: %w", err)
		}
		return a, nil
	})
}

// Delete removes article id.
func (s *ArticleService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	_, err := MutateAndLog(ctx, s.db, actor, articleLog.deleted, func(tx *gorm.DB) (*models.Article, error) {
		a, err := findArticle(tx, id)
		if err != nil {
			return nil, err
		}
		if err := tx.Delete(a).Error; err != nil {
			return nil, fmt.Errorf("delete article: %w", err)
		}
		return a, nil
	})
	return err
}

func findArticle(tx *gorm.DB, id uuid.UUID) (*models.Article, error) {
	var a models.Article
	if err := tx.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("article_not_found")
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return &a, nil
}

// ensureCodeFree returns a conflict when another article than except uses code.
func ensureCodeFree(tx *gorm.DB, code string, except uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Article{}).Where("code = ?", code)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check article code: %w", err)
	}
	if count > 0 {
		return apperr.Conflict("article_code_exists", code)
	}
	return nil
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Count returns the number of articles in stock records.
func (s *ArticleService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}
