package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/HarshJain-sudo/oldmachine-backend/models"
)

// maxTrackedCategories caps the per-user view history used for
// recommendations.
const maxTrackedCategories = 3

// TrackCategoryView records that the user visited the category. The
// (user, category) pair is upserted with a fresh timestamp and the
// history is trimmed to the most recent entries, all in one
// transaction.
func TrackCategoryView(db *gorm.DB, userID, categoryID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var view models.UserCategoryView
		err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).
			First(&view).Error
		switch {
		case err == nil:
			if uerr := tx.Model(&view).Update("viewed_at", time.Now()).Error; uerr != nil {
				return uerr
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			view = models.UserCategoryView{
				UserID:     userID,
				CategoryID: categoryID,
				ViewedAt:   time.Now(),
			}
			if cerr := tx.Create(&view).Error; cerr != nil {
				return cerr
			}
		default:
			return err
		}

		var stale []models.UserCategoryView
		err = tx.Where("user_id = ?", userID).
			Order("viewed_at DESC").
			Offset(maxTrackedCategories).
			Limit(100).
			Find(&stale).Error
		if err != nil {
			return err
		}
		for _, s := range stale {
			if derr := tx.Delete(&models.UserCategoryView{}, "id = ?", s.ID).Error; derr != nil {
				return derr
			}
		}
		return nil
	})
}

// RecentCategoryViews returns the user's tracked views, newest first,
// with the category preloaded.
func RecentCategoryViews(db *gorm.DB, userID string) ([]models.UserCategoryView, error) {
	var views []models.UserCategoryView
	err := db.Preload("Category").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(maxTrackedCategories).
		Find(&views).Error
	return views, err
}

// CategoryRecommendation pairs a recently-viewed category with its top
// products.
type CategoryRecommendation struct {
	Category models.Category
	Products []models.Product
}

// RecommendedProducts returns up to 3 newest products for each of the
// user's recently-viewed categories. Non-leaf categories aggregate
// products of their descendant leaves.
func RecommendedProducts(db *gorm.DB, userID string) ([]CategoryRecommendation, error) {
	views, err := RecentCategoryViews(db, userID)
	if err != nil {
		return nil, err
	}

	recs := make([]CategoryRecommendation, 0, len(views))
	for _, v := range views {
		if v.Category == nil || !v.Category.IsActive {
			continue
		}
		leafIDs, lerr := DescendantLeafCategoryIDs(db, v.CategoryID)
		if lerr != nil {
			return nil, lerr
		}
		var products []models.Product
		err = db.Preload("Images").
			Where("category_id IN ? AND is_active = ?", leafIDs, true).
			Order("created_at DESC").
			Limit(3).
			Find(&products).Error
		if err != nil {
			return nil, err
		}
		recs = append(recs, CategoryRecommendation{
			Category: *v.Category,
			Products: products,
		})
	}
	return recs, nil
}
